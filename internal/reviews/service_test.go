package reviews_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finbase/eventhub/internal/models"
	"github.com/finbase/eventhub/internal/reviews"
)

type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockReviewStore) HasTicket(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	args := m.Called(eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewStore) CreateReview(ctx context.Context, review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func TestCreateReviewSuccess(t *testing.T) {
	mockStore := new(MockReviewStore)
	svc := reviews.NewService(mockStore)

	eventID := uuid.New()
	userID := uuid.New()
	event := &models.Event{ID: eventID, Date: time.Now().AddDate(0, 0, -7)}

	mockStore.On("GetEvent", eventID).Return(event, nil)
	mockStore.On("HasTicket", eventID, userID).Return(true, nil)
	mockStore.On("CreateReview", mock.MatchedBy(func(r *models.Review) bool {
		return r.EventID == eventID && r.UserID == userID && r.Rating == 5
	})).Return(nil)

	review, err := svc.CreateReview(context.Background(), reviews.CreateInput{
		EventID: eventID, UserID: userID, Rating: 5, Comment: "Great event!",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	mockStore.AssertExpectations(t)
}

func TestCreateReviewEventNotYetOccurred(t *testing.T) {
	mockStore := new(MockReviewStore)
	svc := reviews.NewService(mockStore)

	eventID := uuid.New()
	event := &models.Event{ID: eventID, Date: time.Now().AddDate(0, 0, 7)}

	mockStore.On("GetEvent", eventID).Return(event, nil)

	_, err := svc.CreateReview(context.Background(), reviews.CreateInput{
		EventID: eventID, UserID: uuid.New(), Rating: 4, Comment: "Too early.",
	})
	assert.ErrorIs(t, err, reviews.ErrEventNotYetOccurred)
	mockStore.AssertNotCalled(t, "CreateReview", mock.Anything)
}

func TestCreateReviewNoTicketHeld(t *testing.T) {
	mockStore := new(MockReviewStore)
	svc := reviews.NewService(mockStore)

	eventID := uuid.New()
	userID := uuid.New()
	event := &models.Event{ID: eventID, Date: time.Now().AddDate(0, 0, -1)}

	mockStore.On("GetEvent", eventID).Return(event, nil)
	mockStore.On("HasTicket", eventID, userID).Return(false, nil)

	_, err := svc.CreateReview(context.Background(), reviews.CreateInput{
		EventID: eventID, UserID: userID, Rating: 4, Comment: "I was not there.",
	})
	assert.ErrorIs(t, err, reviews.ErrNoTicketHeld)
	mockStore.AssertNotCalled(t, "CreateReview", mock.Anything)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	mockStore := new(MockReviewStore)
	svc := reviews.NewService(mockStore)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), reviews.CreateInput{
			EventID: uuid.New(), UserID: uuid.New(), Rating: rating, Comment: "x",
		})
		assert.ErrorIs(t, err, reviews.ErrInvalidRating)
	}
	mockStore.AssertNotCalled(t, "GetEvent", mock.Anything)
}

func TestCreateReviewEventNotFound(t *testing.T) {
	mockStore := new(MockReviewStore)
	svc := reviews.NewService(mockStore)

	eventID := uuid.New()
	mockStore.On("GetEvent", eventID).Return(nil, reviews.ErrEventNotFound)

	_, err := svc.CreateReview(context.Background(), reviews.CreateInput{
		EventID: eventID, UserID: uuid.New(), Rating: 3, Comment: "x",
	})
	assert.ErrorIs(t, err, reviews.ErrEventNotFound)
}
