package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dioarya/classpulse-api/internal/config"
	"github.com/dioarya/classpulse-api/internal/handler"
	"github.com/dioarya/classpulse-api/internal/middleware"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
	"github.com/dioarya/classpulse-api/internal/router"
	"github.com/dioarya/classpulse-api/internal/service"
)

const testSecret = "contract-test-secret"

type noopUploader struct{}

func (noopUploader) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

func newContractApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.ClassMembership{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizSubmission{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.Thread{},
		&models.Reply{},
		&models.Material{},
		&models.Notification{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	quizRepo := repository.NewQuizRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, nil, nil, "", validate, logger)
	rosterService := service.NewRosterService(memberRepo, logger)
	quizService := service.NewQuizService(quizRepo, nil, time.Second, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, rosterService, notificationService, validate, noopUploader{}, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, noopUploader{}, logger)
	discussionService := service.NewDiscussionService(discussionRepo, notificationService, validate, logger)
	materialService := service.NewMaterialService(materialRepo, validate, noopUploader{}, logger)

	cfg := config.Config{AppName: "ClassPulse API", AppEnv: "test", JWTSecret: testSecret}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		QuizHandler:         handler.NewQuizHandler(quizService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, logger),
		MaterialHandler:     handler.NewMaterialHandler(materialService, logger),
		RosterHandler:       handler.NewRosterHandler(rosterService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	return app, db
}

func bearerToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, authorization string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestQuizFlowEndToEnd(t *testing.T) {
	app, db := newContractApp(t)

	instructor := models.Member{Name: "Pak Dimas", Email: "dimas@example.com", Role: models.MemberRoleInstructor}
	student := models.Member{Name: "Ayu", Email: "ayu@example.com", Role: models.MemberRoleStudent}
	require.NoError(t, db.Create(&instructor).Error)
	require.NoError(t, db.Create(&student).Error)

	createPayload := map[string]interface{}{
		"title": "Chapter 3 Review",
		"questions": []map[string]interface{}{
			{
				"text":           "2+2?",
				"correct_choice": "B",
				"choices": []map[string]string{
					{"label": "A", "text": "3"},
					{"label": "B", "text": "4"},
					{"label": "C", "text": "5"},
					{"label": "D", "text": "6"},
				},
			},
		},
	}

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/classes/10/quizzes", bearerToken(t, instructor.ID, "instructor"), createPayload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Students may not create quizzes.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/classes/10/quizzes", bearerToken(t, student.ID, "student"), createPayload)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodGet, "/api/v1/classes/10/quizzes", bearerToken(t, student.ID, "student"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quizzes []struct {
		ID        uint `json:"id"`
		Questions []struct {
			ID uint `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quizzes))
	require.Len(t, quizzes, 1)
	require.Len(t, quizzes[0].Questions, 1)

	submitPayload := map[string]interface{}{
		"answers": map[string]string{
			fmt.Sprintf("%d", quizzes[0].Questions[0].ID): "B",
		},
	}
	submitPath := fmt.Sprintf("/api/v1/quizzes/%d/submit", quizzes[0].ID)

	resp, env = doJSON(t, app, http.MethodPost, submitPath, bearerToken(t, student.ID, "student"), submitPayload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, 1, result.Score)
	require.Equal(t, 1, result.Total)

	// A second attempt is rejected, and the stored score is untouched.
	resp, _ = doJSON(t, app, http.MethodPost, submitPath, bearerToken(t, student.ID, "student"), submitPayload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.QuizSubmission{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDiscussionFlowEndToEnd(t *testing.T) {
	app, db := newContractApp(t)

	author := models.Member{Name: "Ayu", Email: "ayu-d@example.com", Role: models.MemberRoleStudent}
	replier := models.Member{Name: "Bima", Email: "bima-d@example.com", Role: models.MemberRoleStudent}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&replier).Error)

	resp, env := doJSON(t, app, http.MethodPost, "/api/v1/classes/10/threads", bearerToken(t, author.ID, "student"), map[string]string{
		"message": "Does anyone have the slides?",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var thread struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &thread))

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/threads/%d/replies", thread.ID), bearerToken(t, replier.ID, "student"), map[string]string{
		"message": "Sharing them now",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The thread author receives a reply notification.
	resp, env = doJSON(t, app, http.MethodGet, "/api/v1/notifications/", bearerToken(t, author.ID, "student"), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var notifications []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)
	require.Equal(t, "thread_reply", notifications[0].Type)
}
