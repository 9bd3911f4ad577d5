package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"en-garde-armory-be/internal/bootstrap"
	"en-garde-armory-be/internal/config"
	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/internal/model"
	"en-garde-armory-be/internal/pkg/logger"
	"en-garde-armory-be/internal/repository/implementation"
	"en-garde-armory-be/internal/repository/memory"
	"en-garde-armory-be/pkg/database"
	"en-garde-armory-be/pkg/llm"
	"en-garde-armory-be/pkg/llm/factory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct {
	text string
}

func (g fixedGenerator) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return g.text, nil
}

func (g fixedGenerator) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return g.text, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type view struct {
	SessionId           string `json:"sessionId"`
	SelectedId          string `json:"selectedId"`
	InsightText         string `json:"insightText"`
	InsightLoading      bool   `json:"insightLoading"`
	InsightPanelVisible bool   `json:"insightPanelVisible"`
	AutoRotate          bool   `json:"autoRotate"`
	InsightReady        bool   `json:"insightReady"`
	Equipment           struct {
		Id      string `json:"id"`
		Variant struct {
			Component string `json:"component"`
		} `json:"variant"`
	} `json:"equipment"`
}

type testServer struct {
	app       *fiber.App
	container *bootstrap.Container
}

func newTestServer(t *testing.T, answer string) *testServer {
	t.Helper()
	return newTestServerWith(t, fixedGenerator{text: answer})
}

func newTestServerWith(t *testing.T, generator llm.LLMProvider) *testServer {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			CorsAllowedOrigins: "*",
			SessionStore:       "memory",
			SessionTTL:         time.Hour,
			SessionSecret:      "test-secret",
		},
		Ai: config.AIConfig{
			InsightTimeout:     time.Second,
			InsightEventsTopic: "test_view_updates",
		},
	}

	catalog, err := memory.NewCatalogRepository(constant.EquipmentData)
	require.NoError(t, err)
	db, err := database.NewGormDB(database.DriverSQLite, "file::memory:", false, &model.InsightLog{})
	require.NoError(t, err)

	container := bootstrap.Assemble(bootstrap.Dependencies{
		Config:      cfg,
		Logger:      logger.NewNopLogger(),
		Catalog:     catalog,
		Sessions:    memory.NewSessionRepository(time.Hour),
		InsightLogs: implementation.NewInsightLogRepository(db),
		Generator:   generator,
	})
	t.Cleanup(container.Close)

	return &testServer{app: New(cfg, container).GetApp(), container: container}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) startSession(t *testing.T) (string, view) {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/sessions", "", "")
	require.Equal(t, http.StatusCreated, code)

	var res struct {
		Token string `json:"token"`
		View  view   `json:"view"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Token)
	return res.Token, res.View
}

func decodeView(t *testing.T, env envelope) view {
	t.Helper()
	var v view
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	code, env := s.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, "")

	code, env := s.do(t, http.MethodGet, "/api/equipment", "", "")
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		Id        string `json:"id"`
		Type      string `json:"type"`
		BaseStats struct {
			TargetArea string `json:"targetArea"`
		} `json:"baseStats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 4)
	assert.Equal(t, []string{"foil-01", "epee-01", "sabre-01", "mask-01"},
		[]string{list[0].Id, list[1].Id, list[2].Id, list[3].Id})
	assert.Equal(t, "Full Body", list[1].BaseStats.TargetArea)

	code, _ = s.do(t, http.MethodGet, "/api/equipment/mask-01", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/equipment/rapier-01", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/api/equipment/foil-01/insights?limit=0", "", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/equipment/foil-01/insights?outcome=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, "Sabre X is fast.")
	token, initial := s.startSession(t)

	assert.Equal(t, "foil-01", initial.SelectedId)
	assert.False(t, initial.InsightPanelVisible)
	assert.True(t, initial.AutoRotate)

	code, env := s.do(t, http.MethodPost, "/api/sessions/me/select", token, `{"equipment_id":"sabre-01"}`)
	require.Equal(t, http.StatusOK, code)
	v := decodeView(t, env)
	assert.Equal(t, "sabre-01", v.SelectedId)
	assert.Equal(t, "SabreModel", v.Equipment.Variant.Component)

	code, env = s.do(t, http.MethodPost, "/api/sessions/me/insight", token, "")
	require.Equal(t, http.StatusAccepted, code)
	v = decodeView(t, env)
	assert.True(t, v.InsightLoading)
	assert.True(t, v.InsightPanelVisible)

	s.container.ShowcaseService.Wait()

	code, env = s.do(t, http.MethodGet, "/api/sessions/me", token, "")
	require.Equal(t, http.StatusOK, code)
	v = decodeView(t, env)
	assert.Equal(t, "Sabre X is fast.", v.InsightText)
	assert.False(t, v.InsightLoading)
	assert.True(t, v.InsightReady)

	code, env = s.do(t, http.MethodGet, "/api/equipment/sabre-01/insights?limit=5", "", "")
	require.Equal(t, http.StatusOK, code)
	var history struct {
		Items []struct {
			Outcome  string `json:"outcome"`
			Response string `json:"response"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.Items, 1)
	assert.Equal(t, "success", history.Items[0].Outcome)
	assert.Equal(t, int64(1), history.Total)

	code, env = s.do(t, http.MethodGet, "/api/equipment/sabre-01/insights?outcome=failed", "", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Empty(t, history.Items)
	assert.Zero(t, history.Total)

	code, env = s.do(t, http.MethodPost, "/api/sessions/me/panel/toggle", token, "")
	require.Equal(t, http.StatusOK, code)
	v = decodeView(t, env)
	assert.False(t, v.InsightPanelVisible)
	assert.Equal(t, "Sabre X is fast.", v.InsightText)

	code, _ = s.do(t, http.MethodDelete, "/api/sessions/me", token, "")
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/sessions/me", token, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "session not found", env.Message)
}

func TestAskInsight(t *testing.T) {
	s := newTestServer(t, "Masks stop 1600 newtons.")
	token, _ := s.startSession(t)

	code, env := s.do(t, http.MethodPost, "/api/sessions/me/ask", token, `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodPost, "/api/sessions/me/ask", token, `{"query":"How strong is it?"}`)
	require.Equal(t, http.StatusAccepted, code)
	s.container.ShowcaseService.Wait()

	_, env = s.do(t, http.MethodGet, "/api/sessions/me", token, "")
	assert.Equal(t, "Masks stop 1600 newtons.", decodeView(t, env).InsightText)
}

func TestEmptyAnswerShowsFallback(t *testing.T) {
	s := newTestServer(t, "")
	token, _ := s.startSession(t)

	code, _ := s.do(t, http.MethodPost, "/api/sessions/me/insight", token, "")
	require.Equal(t, http.StatusAccepted, code)
	s.container.ShowcaseService.Wait()

	_, env := s.do(t, http.MethodGet, "/api/sessions/me", token, "")
	assert.Equal(t, constant.InsightFallbackEmpty, decodeView(t, env).InsightText)
}

func TestSessionRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, "")

	code, env := s.do(t, http.MethodGet, "/api/sessions/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodPost, "/api/sessions/me/select", "forged", `{"equipment_id":"foil-01"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/sessions/me/stream", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStreamRequiresUpgrade(t *testing.T) {
	s := newTestServer(t, "")
	token, _ := s.startSession(t)

	code, _ := s.do(t, http.MethodGet, "/api/sessions/me/stream?token="+token, "", "")
	assert.Equal(t, http.StatusUpgradeRequired, code)
}

func TestSelectValidation(t *testing.T) {
	s := newTestServer(t, "")
	token, _ := s.startSession(t)

	code, env := s.do(t, http.MethodPost, "/api/sessions/me/select", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/sessions/me/select", token, `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	// unknown ids are not an error: the view falls back to the first item
	code, env = s.do(t, http.MethodPost, "/api/sessions/me/select", token, `{"equipment_id":"rapier-01"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "foil-01", decodeView(t, env).SelectedId)
}

func TestMissingGeminiKeyOnlyFailsInsights(t *testing.T) {
	generator, err := factory.NewLLMProvider("gemini", "gemini-2.5-flash", "", "")
	require.NoError(t, err)

	s := newTestServerWith(t, generator)
	token, _ := s.startSession(t)

	code, env := s.do(t, http.MethodPost, "/api/sessions/me/select", token, `{"equipment_id":"epee-01"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "epee-01", decodeView(t, env).SelectedId)

	code, _ = s.do(t, http.MethodPost, "/api/sessions/me/insight", token, "")
	require.Equal(t, http.StatusAccepted, code)
	s.container.ShowcaseService.Wait()

	_, env = s.do(t, http.MethodGet, "/api/sessions/me", token, "")
	v := decodeView(t, env)
	assert.Equal(t, constant.InsightFallbackFailed, v.InsightText)
	assert.False(t, v.InsightLoading)
}
