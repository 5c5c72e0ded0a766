package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
)

type stubDiscussionRepo struct {
	threads map[uint]models.Thread
	replies []models.Reply
}

func newStubDiscussionRepo() *stubDiscussionRepo {
	return &stubDiscussionRepo{threads: make(map[uint]models.Thread)}
}

func (s *stubDiscussionRepo) ListThreadsByClass(ctx context.Context, classID uint) ([]models.Thread, error) {
	out := make([]models.Thread, 0, len(s.threads))
	for _, thread := range s.threads {
		if thread.ClassID == classID {
			out = append(out, thread)
		}
	}
	return out, nil
}

func (s *stubDiscussionRepo) GetThread(ctx context.Context, id uint) (models.Thread, error) {
	thread, ok := s.threads[id]
	if !ok {
		return models.Thread{}, gorm.ErrRecordNotFound
	}
	return thread, nil
}

func (s *stubDiscussionRepo) CreateThread(ctx context.Context, thread *models.Thread) error {
	thread.ID = uint(len(s.threads) + 1)
	s.threads[thread.ID] = *thread
	return nil
}

func (s *stubDiscussionRepo) CreateReply(ctx context.Context, reply *models.Reply) error {
	reply.ID = uint(len(s.replies) + 1)
	s.replies = append(s.replies, *reply)
	return nil
}

func TestDiscussionServiceCreateThreadSanitizesMarkup(t *testing.T) {
	repo := newStubDiscussionRepo()
	svc := NewDiscussionService(repo, nil, newTestValidator(), zerolog.Nop())

	thread, err := svc.CreateThread(context.Background(), 10, 42, dto.ThreadCreateRequest{
		Message: "<script>alert(1)</script>Does anyone have the slides?",
	})
	require.NoError(t, err)
	require.Equal(t, "Does anyone have the slides?", thread.Message)
	require.Equal(t, uint(42), thread.AuthorID)
}

func TestDiscussionServiceCreateThreadRejectsEmptyAfterSanitize(t *testing.T) {
	svc := NewDiscussionService(newStubDiscussionRepo(), nil, newTestValidator(), zerolog.Nop())

	_, err := svc.CreateThread(context.Background(), 10, 42, dto.ThreadCreateRequest{
		Message: "<script>alert(1)</script>",
	})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestDiscussionServiceCreateReplyNotifiesThreadAuthor(t *testing.T) {
	repo := newStubDiscussionRepo()
	repo.threads[1] = models.Thread{ID: 1, ClassID: 10, AuthorID: 42, Message: "Original post"}
	notifications := &stubNotificationPublisher{}
	svc := NewDiscussionService(repo, notifications, newTestValidator(), zerolog.Nop())

	reply, err := svc.CreateReply(context.Background(), 1, 24, dto.ReplyCreateRequest{Message: "I do, sharing now"})
	require.NoError(t, err)
	require.Equal(t, uint(1), reply.ThreadID)

	require.Len(t, notifications.calls, 1)
	require.Equal(t, uint(42), notifications.calls[0].UserID)
	require.Equal(t, "thread_reply", notifications.calls[0].Type)
}

func TestDiscussionServiceCreateReplySkipsSelfNotification(t *testing.T) {
	repo := newStubDiscussionRepo()
	repo.threads[1] = models.Thread{ID: 1, ClassID: 10, AuthorID: 42, Message: "Original post"}
	notifications := &stubNotificationPublisher{}
	svc := NewDiscussionService(repo, notifications, newTestValidator(), zerolog.Nop())

	_, err := svc.CreateReply(context.Background(), 1, 42, dto.ReplyCreateRequest{Message: "Answering my own question"})
	require.NoError(t, err)
	require.Empty(t, notifications.calls)
}

func TestDiscussionServiceCreateReplyUnknownThread(t *testing.T) {
	svc := NewDiscussionService(newStubDiscussionRepo(), nil, newTestValidator(), zerolog.Nop())

	_, err := svc.CreateReply(context.Background(), 99, 24, dto.ReplyCreateRequest{Message: "hello"})
	require.ErrorIs(t, err, ErrThreadNotFound)
}
