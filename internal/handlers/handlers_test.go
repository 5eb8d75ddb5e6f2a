package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tastebuddin/config"
	"tastebuddin/internal/app"
	"tastebuddin/internal/controllers"
	feedController "tastebuddin/internal/controllers/feed"
	leaderboardController "tastebuddin/internal/controllers/leaderboard"
	recipesController "tastebuddin/internal/controllers/recipes"
	usersController "tastebuddin/internal/controllers/users"
	"tastebuddin/internal/handlers/middleware"
	"tastebuddin/internal/leaderboard"
	"tastebuddin/internal/models"
	"tastebuddin/internal/types"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFeedController struct {
	feedController.FeedControllerInterface
	mock.Mock
}

func (m *MockFeedController) GetFeed(ctx context.Context, identifier string) ([]models.Recipe, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockFeedController) Preview(ctx context.Context, request *types.FeedPreviewRequest) []models.Recipe {
	args := m.Called(request)
	return args.Get(0).([]models.Recipe)
}

type MockLeaderboardController struct {
	leaderboardController.LeaderboardControllerInterface
	mock.Mock
}

func (m *MockLeaderboardController) Daily(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leaderboard.RecipeEntry), args.Error(1)
}

func (m *MockLeaderboardController) Weekly(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leaderboard.RecipeEntry), args.Error(1)
}

func (m *MockLeaderboardController) Recipes(ctx context.Context, days, limit int) ([]leaderboard.RecipeEntry, error) {
	args := m.Called(days, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leaderboard.RecipeEntry), args.Error(1)
}

func (m *MockLeaderboardController) Authors(ctx context.Context, limit int) ([]leaderboard.AuthorEntry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leaderboard.AuthorEntry), args.Error(1)
}

type MockRecipesController struct {
	recipesController.RecipesControllerInterface
	mock.Mock
}

func (m *MockRecipesController) Update(
	ctx context.Context,
	actorID uuid.UUID,
	id int,
	update *models.RecipeUpdate,
) (*models.Recipe, error) {
	args := m.Called(actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipesController) Delete(ctx context.Context, actorID uuid.UUID, id int) error {
	return m.Called(actorID, id).Error(0)
}

type MockUsersController struct {
	usersController.UsersControllerInterface
	mock.Mock
}

func (m *MockUsersController) Create(ctx context.Context, request *types.CreateUserRequest) (*models.User, error) {
	args := m.Called(request.Username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersController) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersController) Like(
	ctx context.Context,
	request *types.RecipeActionRequest,
) (*types.ActionResult, error) {
	args := m.Called(request.UserID, request.RecipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ActionResult), args.Error(1)
}

type testServer struct {
	server      *fiber.App
	feed        *MockFeedController
	leaderboard *MockLeaderboardController
	recipes     *MockRecipesController
	users       *MockUsersController
}

func newTestServer(t *testing.T, secret string) testServer {
	t.Helper()

	ts := testServer{
		server:      fiber.New(),
		feed:        &MockFeedController{},
		leaderboard: &MockLeaderboardController{},
		recipes:     &MockRecipesController{},
		users:       &MockUsersController{},
	}

	cfg := config.Config{GeneralVersion: "test", AuthJWTSecret: secret}
	testApp := &app.App{
		Config:     cfg,
		Middleware: middleware.New(cfg),
		Controllers: controllers.Controllers{
			Feed:        ts.feed,
			Leaderboard: ts.leaderboard,
			Recipes:     ts.recipes,
			Users:       ts.users,
		},
	}
	require.NoError(t, Router(ts.server, testApp))

	return ts
}

func (ts testServer) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := ts.server.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")

	status, body := ts.do(t, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestFeedHandler_GetFeed(t *testing.T) {
	tests := []struct {
		name           string
		recipes        []models.Recipe
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Returns recipes",
			recipes:        []models.Recipe{{Title: "Veggie Omelette"}},
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "Unknown user",
			err:            fmt.Errorf("%w: user ghost", types.ErrNotFound),
			expectedStatus: fiber.StatusNotFound,
		},
		{
			name:           "Store unavailable hides cause",
			err:            fmt.Errorf("%w: connection refused", types.ErrUnavailable),
			expectedStatus: fiber.StatusServiceUnavailable,
			expectedError:  "Failed to generate feed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, "")
			if tt.err != nil {
				ts.feed.On("GetFeed", "alice").Return(nil, tt.err)
			} else {
				ts.feed.On("GetFeed", "alice").Return(tt.recipes, nil)
			}

			status, body := ts.do(t, httptest.NewRequest("GET", "/api/feed/alice", nil))

			assert.Equal(t, tt.expectedStatus, status)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
			if tt.err == nil {
				recipes := body["recipes"].([]any)
				assert.Len(t, recipes, 1)
			}
			ts.feed.AssertExpectations(t)
		})
	}
}

func TestFeedHandler_Preview(t *testing.T) {
	ts := newTestServer(t, "")
	ts.feed.On("Preview", mock.Anything).Return([]models.Recipe{{Title: "Pancakes"}})

	status, body := ts.do(t, jsonRequest(t, "POST", "/api/feed/preview", map[string]any{
		"recipes": []any{map[string]any{"id": 1, "title": "Pancakes"}},
		"profile": map[string]any{"allergens": []string{"peanut"}},
	}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["recipes"], 1)
}

func TestLeaderboardHandler(t *testing.T) {
	entries := []leaderboard.RecipeEntry{{Rank: 1, RecipeID: 7, Title: "Pancakes", Likes: 3}}

	t.Run("Daily passes limit", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.leaderboard.On("Daily", 5).Return(entries, nil)

		status, body := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/daily?limit=5", nil))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Len(t, body["entries"], 1)
		ts.leaderboard.AssertExpectations(t)
	})

	t.Run("Empty window is a message", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.leaderboard.On("Weekly", 0).Return(nil, leaderboard.ErrNoItemsInWindow)

		status, body := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/weekly", nil))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, leaderboard.ErrNoItemsInWindow.Error(), body["message"])
		assert.Empty(t, body["entries"])
	})

	t.Run("Custom window defaults to one day", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.leaderboard.On("Recipes", 1, 0).Return(entries, nil)

		status, _ := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/recipes", nil))

		assert.Equal(t, fiber.StatusOK, status)
		ts.leaderboard.AssertExpectations(t)
	})

	t.Run("Invalid window", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.leaderboard.On("Recipes", 0, 0).Return(nil, fmt.Errorf("%w: days", types.ErrValidation))

		status, _ := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/recipes?days=0", nil))

		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("Non numeric days", func(t *testing.T) {
		ts := newTestServer(t, "")

		status, _ := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/recipes?days=abc", nil))

		assert.Equal(t, fiber.StatusBadRequest, status)
		ts.leaderboard.AssertNotCalled(t, "Recipes", mock.Anything, mock.Anything)
	})

	t.Run("No authors", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.leaderboard.On("Authors", 3).Return(nil, leaderboard.ErrNoAuthorData)

		status, body := ts.do(t, httptest.NewRequest("GET", "/api/leaderboard/authors?limit=3", nil))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, leaderboard.ErrNoAuthorData.Error(), body["message"])
	})
}

func TestUsersHandler_Create(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.users.On("Create", "alice").Return(&models.User{Username: "alice"}, nil)

		status, body := ts.do(t, jsonRequest(t, "POST", "/api/users", map[string]any{"username": "alice"}))

		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	})

	t.Run("Username taken", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.users.On("Create", "alice").Return(nil, fmt.Errorf("%w: username taken", types.ErrConflict))

		status, _ := ts.do(t, jsonRequest(t, "POST", "/api/users", map[string]any{"username": "alice"}))

		assert.Equal(t, fiber.StatusConflict, status)
	})

	t.Run("Malformed body", func(t *testing.T) {
		ts := newTestServer(t, "")
		req := httptest.NewRequest("POST", "/api/users", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")

		status, _ := ts.do(t, req)

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestUsersHandler_UsernameExists(t *testing.T) {
	ts := newTestServer(t, "")
	ts.users.On("UsernameExists", "alice").Return(true, nil)

	status, body := ts.do(t, httptest.NewRequest("GET", "/api/users/exists/alice", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["exists"])
}

func TestUsersHandler_Like(t *testing.T) {
	const secret = "secret"
	userID := uuid.New()

	token := func(subject uuid.UUID) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": subject.String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(secret))
		require.NoError(t, err)
		return "Bearer " + signed
	}

	t.Run("Open without auth", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.users.On("Like", userID, 4).Return(&types.ActionResult{Changed: true, LikedRecipes: []int{4}}, nil)

		status, body := ts.do(t, jsonRequest(t, "POST", "/api/users/like", map[string]any{
			"userId":   userID,
			"recipeId": 4,
		}))

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["result"].(map[string]any)["changed"])
	})

	t.Run("Token subject fills user", func(t *testing.T) {
		ts := newTestServer(t, secret)
		ts.users.On("Like", userID, 4).Return(&types.ActionResult{}, nil)

		req := jsonRequest(t, "POST", "/api/users/like", map[string]any{"recipeId": 4})
		req.Header.Set("Authorization", token(userID))
		status, _ := ts.do(t, req)

		assert.Equal(t, fiber.StatusOK, status)
		ts.users.AssertExpectations(t)
	})

	t.Run("Acting for someone else", func(t *testing.T) {
		ts := newTestServer(t, secret)

		req := jsonRequest(t, "POST", "/api/users/like", map[string]any{
			"userId":   uuid.New(),
			"recipeId": 4,
		})
		req.Header.Set("Authorization", token(userID))
		status, _ := ts.do(t, req)

		assert.Equal(t, fiber.StatusForbidden, status)
		ts.users.AssertNotCalled(t, "Like", mock.Anything, mock.Anything)
	})

	t.Run("Missing token", func(t *testing.T) {
		ts := newTestServer(t, secret)

		status, _ := ts.do(t, jsonRequest(t, "POST", "/api/users/like", map[string]any{"recipeId": 4}))

		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("Unknown recipe", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.users.On("Like", userID, 99).Return(nil, fmt.Errorf("%w: recipe 99", types.ErrNotFound))

		status, _ := ts.do(t, jsonRequest(t, "POST", "/api/users/like", map[string]any{
			"userId":   userID,
			"recipeId": 99,
		}))

		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestRecipesHandler_Update(t *testing.T) {
	actor := uuid.New()

	t.Run("Not the author", func(t *testing.T) {
		ts := newTestServer(t, "")
		ts.recipes.On("Update", actor, 3).Return(nil, fmt.Errorf("%w: not the author", types.ErrForbidden))

		status, _ := ts.do(t, jsonRequest(t, "PUT", "/api/recipes/3", map[string]any{
			"userId": actor,
			"title":  "New title",
		}))

		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("Invalid id", func(t *testing.T) {
		ts := newTestServer(t, "")

		status, _ := ts.do(t, jsonRequest(t, "PUT", "/api/recipes/abc", map[string]any{}))

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestRecipesHandler_Delete(t *testing.T) {
	actor := uuid.New()
	ts := newTestServer(t, "")
	ts.recipes.On("Delete", actor, 3).Return(nil)

	resp, err := ts.server.Test(httptest.NewRequest("DELETE", "/api/recipes/3?userId="+actor.String(), nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	ts.recipes.AssertExpectations(t)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{err: fmt.Errorf("%w: x", types.ErrValidation), expected: fiber.StatusBadRequest},
		{err: fmt.Errorf("%w: x", types.ErrNotFound), expected: fiber.StatusNotFound},
		{err: fmt.Errorf("%w: x", types.ErrForbidden), expected: fiber.StatusForbidden},
		{err: fmt.Errorf("%w: x", types.ErrConflict), expected: fiber.StatusConflict},
		{err: fmt.Errorf("%w: x", types.ErrUnavailable), expected: fiber.StatusServiceUnavailable},
		{err: fmt.Errorf("boom"), expected: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.err))
		})
	}
}
