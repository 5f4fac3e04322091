package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/gymgraph/internal/config"
	"github.com/mansoorceksport/gymgraph/internal/domain"
	"github.com/mansoorceksport/gymgraph/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

const defaultExerciseID = "378901583609462864"

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.DefaultExerciseID = defaultExerciseID
	cfg.MongoDB.QueryTimeout = time.Second
	cfg.Redis.APQTTL = time.Hour
	return cfg
}

type memoryExercises map[string]*domain.Exercise

func (m memoryExercises) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	if ex, ok := m[id]; ok {
		return ex, nil
	}
	return nil, &domain.FetchError{Op: "GetExercise", ID: id, Err: domain.ErrExerciseNotFound}
}

func stubReaders(logger *zap.Logger) domain.ExerciseReader {
	return memoryExercises{
		defaultExerciseID: {ID: defaultExerciseID, Name: "Barbell Squat", PrimaryMuscle: "Quadriceps"},
	}
}

func post(t *testing.T, app *fiber.App, body interface{}, headers map[string]string) (*http.Response, gqlResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out gqlResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestGraphQLEndpoint(t *testing.T) {
	app, err := NewApp(AppDependencies{Config: testConfig(), ExerciseReaders: stubReaders})
	require.NoError(t, err)

	resp, out := post(t, app, map[string]string{"query": "{ books { title author } }"}, nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, out.Errors)
	assert.JSONEq(t, `{"books":[{"title":"The Awakening","author":"Kate Chopin"},{"title":"City of Glass","author":"Paul Auster"}]}`, string(out.Data))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	_, out = post(t, app, map[string]string{"query": "{ getExercise { name primaryMuscle } }"}, nil)
	assert.Empty(t, out.Errors)
	assert.JSONEq(t, `{"getExercise":{"name":"Barbell Squat","primaryMuscle":"Quadriceps"}}`, string(out.Data))

	_, out = post(t, app, map[string]string{"query": "{ allRoutines { id } }"}, nil)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "NOT_IMPLEMENTED", out.Errors[0].Extensions["code"])
}

func TestGraphQLGetRequest(t *testing.T) {
	app, err := NewApp(AppDependencies{Config: testConfig(), ExerciseReaders: stubReaders})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/graphql?query=%7B%20books%20%7B%20title%20%7D%20%7D", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, `{"books":[{"title":"The Awakening"},{"title":"City of Glass"}]}`, string(out.Data))
}

func TestBadRequests(t *testing.T) {
	app, err := NewApp(AppDependencies{Config: testConfig(), ExerciseReaders: stubReaders})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString("not json"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, out := post(t, app, map[string]string{"query": ""}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "BAD_REQUEST", out.Errors[0].Extensions["code"])
}

func TestHealth(t *testing.T) {
	app, err := NewApp(AppDependencies{Config: testConfig(), ExerciseReaders: stubReaders})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTokenRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "test-secret-key-123"
	cfg.Auth.Required = true

	app, err := NewApp(AppDependencies{Config: cfg, ExerciseReaders: stubReaders})
	require.NoError(t, err)

	resp, out := post(t, app, map[string]string{"query": "{ books { title } }"}, nil)
	assert.Equal(t, 401, resp.StatusCode)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "UNAUTHENTICATED", out.Errors[0].Extensions["code"])

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.TokenClaims{UserID: "u1"}).
		SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)

	resp, out = post(t, app, map[string]string{"query": "{ books { title } }"}, map[string]string{"token": token})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, out.Errors)
}

func TestPersistedQueries(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	app, err := NewApp(AppDependencies{Config: testConfig(), RedisClient: redisClient, ExerciseReaders: stubReaders})
	require.NoError(t, err)

	query := "{ books { title } }"
	hash := repository.HashQuery(query)
	ext := map[string]interface{}{
		"persistedQuery": map[string]interface{}{"version": 1, "sha256Hash": hash},
	}

	// hash only, not registered yet
	_, out := post(t, app, map[string]interface{}{"extensions": ext}, nil)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "PERSISTED_QUERY_NOT_FOUND", out.Errors[0].Extensions["code"])

	// register
	_, out = post(t, app, map[string]interface{}{"query": query, "extensions": ext}, nil)
	assert.Empty(t, out.Errors)
	assert.True(t, mr.Exists("apq:"+hash))

	// hash only, now resolved
	_, out = post(t, app, map[string]interface{}{"extensions": ext}, nil)
	assert.Empty(t, out.Errors)
	assert.JSONEq(t, `{"books":[{"title":"The Awakening"},{"title":"City of Glass"}]}`, string(out.Data))

	// mismatched hash
	resp, _ := post(t, app, map[string]interface{}{"query": "{ books { author } }", "extensions": ext}, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPersistedQueriesRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer redisClient.Close()

	app, err := NewApp(AppDependencies{Config: testConfig(), RedisClient: redisClient, ExerciseReaders: stubReaders})
	require.NoError(t, err)

	mr.Close()

	query := "{ books { title } }"
	ext := map[string]interface{}{
		"persistedQuery": map[string]interface{}{"version": 1, "sha256Hash": repository.HashQuery(query)},
	}
	resp, out := post(t, app, map[string]interface{}{"query": query, "extensions": ext}, nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, out.Errors)
	assert.JSONEq(t, `{"books":[{"title":"The Awakening"},{"title":"City of Glass"}]}`, string(out.Data))
}

func TestPersistedQueriesWithoutRedis(t *testing.T) {
	app, err := NewApp(AppDependencies{Config: testConfig(), ExerciseReaders: stubReaders})
	require.NoError(t, err)

	ext := map[string]interface{}{
		"persistedQuery": map[string]interface{}{"version": 1, "sha256Hash": repository.HashQuery("{ books { title } }")},
	}
	resp, out := post(t, app, map[string]interface{}{"extensions": ext}, nil)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "PERSISTED_QUERY_NOT_SUPPORTED", out.Errors[0].Extensions["code"])
}

func TestGetExerciseThroughMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "gymgraph.exercises", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: defaultExerciseID},
			{Key: "name", Value: "Barbell Squat"},
			{Key: "primaryMuscle", Value: "Quadriceps"},
			{Key: "secondaryMuscles", Value: bson.A{"Glutes"}},
		}))

		app, err := NewApp(AppDependencies{Config: testConfig(), MongoDB: mt.DB})
		require.NoError(mt, err)

		_, out := post(mt.T, app, map[string]string{"query": "{ getExercise { name description primaryMuscle secondaryMuscles } }"}, nil)
		assert.Empty(mt, out.Errors)
		assert.JSONEq(mt, `{"getExercise":{"name":"Barbell Squat","description":null,"primaryMuscle":"Quadriceps","secondaryMuscles":["Glutes"]}}`, string(out.Data))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "gymgraph.exercises", mtest.FirstBatch))

		app, err := NewApp(AppDependencies{Config: testConfig(), MongoDB: mt.DB})
		require.NoError(mt, err)

		_, out := post(mt.T, app, map[string]string{"query": `{ getExercise(id: "nope") { name } }`}, nil)
		require.Len(mt, out.Errors, 1)
		assert.Equal(mt, "NOT_FOUND", out.Errors[0].Extensions["code"])
		assert.Equal(mt, "nope", out.Errors[0].Extensions["id"])
	})

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    18,
			Name:    "AuthenticationFailed",
			Message: "Authentication failed.",
		}))

		app, err := NewApp(AppDependencies{Config: testConfig(), MongoDB: mt.DB})
		require.NoError(mt, err)

		_, out := post(mt.T, app, map[string]string{"query": "{ getExercise { name } }"}, nil)
		require.Len(mt, out.Errors, 1)
		assert.Equal(mt, "STORE_QUERY_FAILED", out.Errors[0].Extensions["code"])
		assert.Equal(mt, defaultExerciseID, out.Errors[0].Extensions["id"])
		assert.Equal(mt, "exercise store query failed", out.Errors[0].Message)
		assert.Contains(mt, out.Errors[0].Extensions["cause"], "Authentication failed")
		assert.NotContains(mt, out.Errors[0].Message, "exercises", "collection names stay out of the message")
	})
}
