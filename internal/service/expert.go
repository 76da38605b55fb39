package service

import (
	"context"
	"errors"
	"strings"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/model"
)

var ErrQuestionRequired = &ValidationError{"Please enter a question."}

type ExpertClient interface {
	AskExpert(ctx context.Context, question string) (model.AskExpertResponse, error)
}

// ExpertService forwards free-text property questions. It needs no session.
type ExpertService struct {
	client ExpertClient
}

func NewExpertService(client ExpertClient) *ExpertService {
	return &ExpertService{client: client}
}

// Ask returns the expert's answer, or the backend's error text in its place.
func (s *ExpertService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrQuestionRequired
	}

	resp, err := s.client.AskExpert(ctx, question)
	if err != nil {
		var be *api.BackendError
		if errors.As(err, &be) && be.Message != "" {
			return be.Message, nil
		}
		return "", err
	}
	if resp.Answer != "" {
		return resp.Answer, nil
	}
	return resp.Error, nil
}
