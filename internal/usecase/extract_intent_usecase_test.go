package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"taste-orchestrator/internal/domain"
	"taste-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTextGenerator struct {
	mock.Mock
}

func (m *mockTextGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestExtractIntent_Success(t *testing.T) {
	gen := new(mockTextGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return(`{"domain":["place"],"moodTags":["relaxing"],"location":"Thailand","take":6}`, nil)

	uc := usecase.NewExtractIntentUsecase(gen, testLogger())
	intent, err := uc.Execute(context.Background(), "user: plan a relaxing beach trip to Thailand next week")

	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, []domain.EntityDomain{domain.DomainPlace}, intent.Domains)
	assert.Equal(t, "Thailand", intent.Location)
}

func TestExtractIntent_TranscriptEmbeddedInPrompt(t *testing.T) {
	gen := new(mockTextGenerator)
	var captured string
	gen.On("GenerateJSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.String(1)
	}).Return(`{"domain":["movie"]}`, nil)

	uc := usecase.NewExtractIntentUsecase(gen, testLogger())
	_, err := uc.Execute(context.Background(), "user: scary movies tonight")

	require.NoError(t, err)
	assert.Contains(t, captured, "user: scary movies tonight")
	assert.Contains(t, captured, "JSON object or the literal null")
}

func TestExtractIntent_UnparseableIsSoftMiss(t *testing.T) {
	gen := new(mockTextGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("Sure! Here are some ideas for you:", nil)

	uc := usecase.NewExtractIntentUsecase(gen, testLogger())
	intent, err := uc.Execute(context.Background(), "user: hello")

	assert.NoError(t, err)
	assert.Nil(t, intent)
}

func TestExtractIntent_NullIsSoftMiss(t *testing.T) {
	gen := new(mockTextGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("null", nil)

	uc := usecase.NewExtractIntentUsecase(gen, testLogger())
	intent, err := uc.Execute(context.Background(), "user: how are you?")

	assert.NoError(t, err)
	assert.Nil(t, intent)
}

func TestExtractIntent_BackendErrorPropagates(t *testing.T) {
	gen := new(mockTextGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	uc := usecase.NewExtractIntentUsecase(gen, testLogger())
	intent, err := uc.Execute(context.Background(), "user: anything")

	assert.Error(t, err)
	assert.Nil(t, intent)
}

func TestExtractIntent_EmptyTranscript(t *testing.T) {
	gen := new(mockTextGenerator)
	uc := usecase.NewExtractIntentUsecase(gen, testLogger())

	_, err := uc.Execute(context.Background(), "   ")
	assert.Error(t, err)
	gen.AssertNotCalled(t, "GenerateJSON")
}
