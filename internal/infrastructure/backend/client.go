// Package backend es el adaptador HTTP hacia la API del sistema de BI
// hotelero: métricas agregadas del tablero y login de usuarios.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

var (
	_ ports.MetricsBackend = (*Client)(nil)
	_ ports.Authenticator  = (*Client)(nil)
)

const (
	metricsPath = "/dashboard/metrics/"
	loginPath   = "/usuarios/login/"
	refreshPath = "/token/refresh/"

	// DefaultTimeout mismo límite que usaba el cliente web original.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 256 * 1024
)

// Config parámetros del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente del backend. Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. Timeout <= 0 usa DefaultTimeout.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "backend_client").Logger(),
	}
}

// MetricsFor MetricsSource autenticado con los tokens del usuario. Ante un
// 401 renueva el access token con el refresh y reintenta una vez.
func (c *Client) MetricsFor(tokens ports.BackendTokens) ports.MetricsSource {
	return &metricsSource{client: c, access: tokens.Access, refresh: tokens.Refresh}
}

type metricsSource struct {
	client  *Client
	refresh string

	mu     sync.Mutex
	access string
}

func (s *metricsSource) FetchMetrics(ctx context.Context, state filter.State) (entity.Metrics, error) {
	s.mu.Lock()
	access := s.access
	s.mu.Unlock()

	m, err := s.client.FetchMetrics(ctx, access, state)
	if err == nil || s.refresh == "" || !errors.Is(err, domain.ErrUnauthorized) {
		return m, err
	}

	renewed, rerr := s.client.Refresh(ctx, s.refresh)
	if rerr != nil {
		s.client.log.Warn().Err(rerr).Msg("no se pudo renovar el token de acceso")
		return nil, err
	}
	s.mu.Lock()
	s.access = renewed
	s.mu.Unlock()
	return s.client.FetchMetrics(ctx, renewed, state)
}

// FetchMetrics GET /dashboard/metrics/ con el filtro como parámetros discretos.
func (c *Client) FetchMetrics(ctx context.Context, accessToken string, state filter.State) (entity.Metrics, error) {
	url := c.baseURL + metricsPath + "?" + filter.EncodeQuery(state).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: crear request de métricas: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	m, err := decodeMetrics(body)
	if err != nil {
		return nil, &APIError{Status: http.StatusOK, Message: msgConnection, Err: fmt.Errorf("backend: respuesta de métricas ilegible: %w", err)}
	}
	return m, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID          json.Number `json:"id"`
		Email       string      `json:"email"`
		Nombre      string      `json:"nombre"`
		Apellido    string      `json:"apellido"`
		TipoUsuario string      `json:"tipo_usuario"`
		Estado      *bool       `json:"estado"`
	} `json:"user"`
}

// Login POST /usuarios/login/. El rol se toma de tipo_usuario.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.BackendLogin, error) {
	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("backend: serializar login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("backend: crear request de login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Status: http.StatusOK, Message: msgConnection, Err: fmt.Errorf("backend: respuesta de login ilegible: %w", err)}
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "No se recibieron tokens válidos desde el servidor", Err: errors.New("backend: login sin tokens")}
	}

	active := resp.User.Estado == nil || *resp.User.Estado
	return &ports.BackendLogin{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User: entity.User{
			ID:       resp.User.ID.String(),
			Email:    resp.User.Email,
			Name:     resp.User.Nombre,
			LastName: resp.User.Apellido,
			Role:     entity.NormalizeRole(resp.User.TipoUsuario),
			Active:   active,
		},
	}, nil
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Refresh POST /token/refresh/ y devuelve el nuevo access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("backend: serializar refresh: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("backend: crear request de refresh: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	var resp refreshResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Access == "" {
		return "", &APIError{Status: http.StatusOK, Message: "No se recibieron tokens válidos desde el servidor", Err: fmt.Errorf("%w: refresh sin access", domain.ErrUnauthorized)}
	}
	return resp.Access, nil
}

// do ejecuta la petición y devuelve el cuerpo de una respuesta 2xx.
func (c *Client) do(req *http.Request) ([]byte, error) {
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	log := c.log.With().Str("request_id", requestID).Str("path", req.URL.Path).Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, &APIError{Message: msgConnection, Err: ctxErr}
		}
		log.Warn().Err(err).Msg("backend no disponible")
		return nil, connectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, connectionError(err)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("respuesta del backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := responseError(resp.StatusCode, body)
		log.Warn().Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend respondió con error")
		return nil, apiErr
	}
	return body, nil
}

// decodeMetrics acepta {"metrics": {...}} o el objeto plano. Las entradas no
// numéricas se ignoran.
func decodeMetrics(body []byte) (entity.Metrics, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	if nested, ok := top["metrics"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil && inner != nil {
			top = inner
		}
	}

	out := make(entity.Metrics, len(top))
	for k, raw := range top {
		v, ok := parseNumber(raw)
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || s[0] == '{' || s[0] == '[' || s == "true" || s == "false" {
		return decimal.Zero, false
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
