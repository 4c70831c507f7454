package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/internal/service"
	appvalidator "github.com/fairyhunter13/voucher-redemption-system/internal/validator"
)

// mockDistributorService is a mock implementation of DistributorServiceInterface.
type mockDistributorService struct {
	createFn func(ctx context.Context, req *model.CreateDistributorRequest) error
	loginFn  func(ctx context.Context, distributorNumber, password string) (*model.Distributor, error)
	getFn    func(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error)
}

func (m *mockDistributorService) CreateDistributor(ctx context.Context, req *model.CreateDistributorRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil
}

func (m *mockDistributorService) DistributorLogin(ctx context.Context, distributorNumber, password string) (*model.Distributor, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, distributorNumber, password)
	}
	return nil, nil
}

func (m *mockDistributorService) GetDistributor(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, distributorNumber)
	}
	return nil, nil
}

func setupDistributorTestApp(mockSvc *mockDistributorService) *fiber.App {
	app := fiber.New()
	h := NewDistributorHandler(mockSvc, appvalidator.New())
	app.Post("/api/distributors", h.CreateDistributor)
	app.Post("/api/distributors/login", h.Login)
	app.Get("/api/distributors/:distributor_number", h.GetDistributor)
	return app
}

func TestCreateDistributor_Success(t *testing.T) {
	var captured *model.CreateDistributorRequest
	mockSvc := &mockDistributorService{
		createFn: func(ctx context.Context, req *model.CreateDistributorRequest) error {
			captured = req
			return nil
		},
	}
	app := setupDistributorTestApp(mockSvc)

	body := `{"distributor_number": "D1", "password": "hunter22", "distributor_name": "South Distribution", "distributor_pincode": "560001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, "D1", captured.DistributorNumber)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "distributor created successfully", result["message"])
}

func TestCreateDistributor_Duplicate(t *testing.T) {
	mockSvc := &mockDistributorService{
		createFn: func(ctx context.Context, req *model.CreateDistributorRequest) error {
			return service.ErrDuplicateDistributor
		},
	}
	app := setupDistributorTestApp(mockSvc)

	body := `{"distributor_number": "D1", "password": "hunter22", "distributor_name": "South Distribution", "distributor_pincode": "560001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "distributor already exists", result["error"])
}

func TestCreateDistributor_MissingNumber(t *testing.T) {
	app := setupDistributorTestApp(&mockDistributorService{
		createFn: func(ctx context.Context, req *model.CreateDistributorRequest) error {
			t.Fatal("service should not be reached on validation failure")
			return nil
		},
	})

	body := `{"password": "hunter22", "distributor_name": "South Distribution", "distributor_pincode": "560001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "invalid request: distributor_number is required", result["error"])
}

func TestCreateDistributor_BlankName(t *testing.T) {
	app := setupDistributorTestApp(&mockDistributorService{})

	body := `{"distributor_number": "D1", "password": "hunter22", "distributor_name": "   ", "distributor_pincode": "560001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "invalid request: distributor_name cannot be whitespace only", result["error"])
}

func TestDistributorLogin_Success(t *testing.T) {
	mockSvc := &mockDistributorService{
		loginFn: func(ctx context.Context, distributorNumber, password string) (*model.Distributor, error) {
			return &model.Distributor{
				DistributorNumber: distributorNumber,
				Name:              "South Distribution",
				Pincode:           "560001",
			}, nil
		},
	}
	app := setupDistributorTestApp(mockSvc)

	body := `{"distributor_number": "D1", "password": "hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Message     string            `json:"message"`
		Distributor model.Distributor `json:"distributor"`
	}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "login successful", result.Message)
	assert.Equal(t, "D1", result.Distributor.DistributorNumber)
}

func TestDistributorLogin_InvalidCredentials(t *testing.T) {
	mockSvc := &mockDistributorService{
		loginFn: func(ctx context.Context, distributorNumber, password string) (*model.Distributor, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	app := setupDistributorTestApp(mockSvc)

	body := `{"distributor_number": "D404", "password": "whatever"}`
	req := httptest.NewRequest(http.MethodPost, "/api/distributors/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "invalid credentials", result["error"])
}

func TestGetDistributor_Success(t *testing.T) {
	created := time.Now().UTC().Truncate(time.Second)
	mockSvc := &mockDistributorService{
		getFn: func(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error) {
			return &model.DistributorResponse{
				DistributorNumber: distributorNumber,
				Name:              "South Distribution",
				Pincode:           "560001",
				DealerRoster: []model.RosterEntry{
					{DealerNumber: "X1", Name: "Central Dealer", Pincode: "560001", CreatedAt: created},
					{DealerNumber: "X2", Name: "North Dealer", Pincode: "560024", CreatedAt: created},
				},
			}, nil
		},
	}
	app := setupDistributorTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/distributors/D1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var distributor model.DistributorResponse
	err = json.NewDecoder(resp.Body).Decode(&distributor)
	require.NoError(t, err)
	assert.Equal(t, "D1", distributor.DistributorNumber)
	require.Len(t, distributor.DealerRoster, 2)
	assert.Equal(t, "X1", distributor.DealerRoster[0].DealerNumber)
}

func TestGetDistributor_EmptyRosterSerializesAsArray(t *testing.T) {
	mockSvc := &mockDistributorService{
		getFn: func(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error) {
			return &model.DistributorResponse{
				DistributorNumber: distributorNumber,
				Name:              "South Distribution",
				DealerRoster:      []model.RosterEntry{},
			}, nil
		},
	}
	app := setupDistributorTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/distributors/D1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var raw map[string]any
	err = json.NewDecoder(resp.Body).Decode(&raw)
	require.NoError(t, err)

	roster, ok := raw["dealer_roster"].([]any)
	require.True(t, ok, "dealer_roster should be a JSON array, not null")
	assert.Len(t, roster, 0)
}

func TestGetDistributor_NotFound(t *testing.T) {
	mockSvc := &mockDistributorService{
		getFn: func(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error) {
			return nil, service.ErrDistributorNotFound
		},
	}
	app := setupDistributorTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/distributors/D404", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var result map[string]string
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "distributor not found", result["error"])
}
