package service

import (
	"fmt"
	"strings"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

type FeedbackService struct {
	storage *storage.Storage
}

func NewFeedbackService(s *storage.Storage) *FeedbackService {
	return &FeedbackService{storage: s}
}

func (s *FeedbackService) Submit(userID int64, text string) (*domain.Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("feedback cannot be empty")
	}

	// First line becomes the subject
	subject := text
	message := ""
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		subject = strings.TrimSpace(text[:idx])
		message = strings.TrimSpace(text[idx+1:])
	}

	feedback := &domain.Feedback{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := s.storage.CreateFeedback(feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return feedback, nil
}

// ListAll returns every feedback entry, admin only
func (s *FeedbackService) ListAll(user *domain.User) ([]*domain.Feedback, error) {
	if user == nil || !user.IsAdmin() {
		return nil, fmt.Errorf("access denied")
	}
	return s.storage.ListFeedback()
}
