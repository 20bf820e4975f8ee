package store

import (
	"context"
	"testing"
	"time"

	"proposalcard-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Gorm {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open in-memory database")

	// An in-memory sqlite database lives and dies with its connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Proposal{}), "migrate")
	return NewGorm(db)
}

func testProposal(slug string) *models.Proposal {
	return &models.Proposal{
		ID:             uuid.New(),
		UniqueSlug:     slug,
		ProposerName:   "Alex",
		PartnerName:    "Sam",
		ProposerGender: models.GenderMale,
		PartnerGender:  models.GenderFemale,
		ProposalType:   models.TypeMarriage,
		Status:         models.StatusPending,
	}
}

func TestInsertAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := testProposal("sam-abc123")
	require.NoError(t, st.Insert(ctx, p))

	bySlug, err := st.GetBySlug(ctx, "sam-abc123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
	assert.Equal(t, models.StatusPending, bySlug.Status)

	byID, err := st.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam-abc123", byID.UniqueSlug)
}

func TestInsertDuplicateSlug(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Insert(ctx, testProposal("sam-abc123")))
	err := st.Insert(ctx, testProposal("sam-abc123"))
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestGetNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetBySlug(ctx, "nonexistent-slug-xyz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteResponse(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := testProposal("sam-abc123")
	require.NoError(t, st.Insert(ctx, p))

	at := time.Now().UTC().Truncate(time.Second)
	applied, err := st.CompleteResponse(ctx, p.ID, models.StatusAccepted, "Yes!!", at)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := st.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Equal(t, "Yes!!", got.ResponseMessage)
	require.NotNil(t, got.RespondedAt)
	assert.True(t, got.RespondedAt.Equal(at))

	// The record already left pending; a second response must not apply.
	applied, err = st.CompleteResponse(ctx, p.ID, models.StatusRejected, "no", time.Now())
	require.NoError(t, err)
	assert.False(t, applied)

	got, err = st.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Equal(t, "Yes!!", got.ResponseMessage)
}

func TestCompleteResponseMissingRecord(t *testing.T) {
	st := newTestStore(t)

	applied, err := st.CompleteResponse(context.Background(), uuid.New(), models.StatusAccepted, "", time.Now())
	require.NoError(t, err)
	assert.False(t, applied)
}
