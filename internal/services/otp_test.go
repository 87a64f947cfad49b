package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/models"
)

func TestGenerateCreatesConsumableRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", verification.Email)
	require.False(t, verification.Verified)
	require.GreaterOrEqual(t, verification.Code, 10000)
	require.LessOrEqual(t, verification.Code, 99999)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), verification.ExpiredAt, 5*time.Second)

	var stored models.Verification
	require.NoError(t, db.First(&stored, "id = ?", verification.ID).Error)
	require.Equal(t, verification.Code, stored.Code)
}

func TestVerifyConsumesRecordOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	email, err := svc.Verify(verification.ID, verification.Code)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	var stored models.Verification
	require.NoError(t, db.First(&stored, "id = ?", verification.ID).Error)
	require.True(t, stored.Verified)

	// Consumed records read as not found, even with the right code.
	_, err = svc.Verify(verification.ID, verification.Code)
	require.ErrorIs(t, err, ErrVerificationNotFound)
}

func TestVerifyExpiredBeatsWrongCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Verification{}).
		Where("id = ?", verification.ID).
		Update("expired_at", time.Now().Add(-time.Minute)).Error)

	// Correct code after the window is expired, not invalid.
	_, err = svc.Verify(verification.ID, verification.Code)
	require.ErrorIs(t, err, ErrVerificationExpired)

	// Wrong code after the window still reads as expired.
	_, err = svc.Verify(verification.ID, verification.Code+1)
	require.ErrorIs(t, err, ErrVerificationExpired)

	var stored models.Verification
	require.NoError(t, db.First(&stored, "id = ?", verification.ID).Error)
	require.False(t, stored.Verified)
}

func TestVerifyWrongCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(verification.ID, verification.Code+1)
	require.ErrorIs(t, err, ErrInvalidCode)

	// A failed attempt does not consume the record.
	email, err := svc.Verify(verification.ID, verification.Code)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestVerifyUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	_, err := svc.Verify(uuid.New(), 12345)
	require.ErrorIs(t, err, ErrVerificationNotFound)
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)
	oldCode := verification.Code

	require.NoError(t, svc.Resend(verification.ID))

	var stored models.Verification
	require.NoError(t, db.First(&stored, "id = ?", verification.ID).Error)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), stored.ExpiredAt, 5*time.Second)

	// The regenerated code can collide with the old one; only assert the old
	// code is dead when it actually changed.
	if stored.Code != oldCode {
		_, err = svc.Verify(verification.ID, oldCode)
		require.ErrorIs(t, err, ErrInvalidCode)
	}

	email, err := svc.Verify(verification.ID, stored.Code)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestResendRejectsConsumedRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	verification, err := svc.Generate("a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(verification.ID, verification.Code)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Resend(verification.ID), ErrVerificationNotFound)
}

func TestResendUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, nil, 10*time.Minute)

	require.ErrorIs(t, svc.Resend(uuid.New()), ErrVerificationNotFound)
}
