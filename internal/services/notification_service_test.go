package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewalNoticesListsDueAndOverdueMembers(t *testing.T) {
	repo := newStubMemberRepository()
	members := newMemberServiceForTest(repo, nil, civilDay(2024, time.January, 1))
	ctx := context.Background()

	dueDates := map[string]time.Time{
		"late":   civilDay(2024, time.March, 1),
		"today":  civilDay(2024, time.March, 10),
		"future": civilDay(2024, time.March, 11),
	}
	for _, name := range []string{"late", "today", "future"} {
		due := dueDates[name]
		input := validInput()
		input.Username = name
		input.Email = name + "@example.com"
		input.AdmissionDate = civilDay(2024, time.January, 1)
		input.DueDate = &due
		_, err := members.CreateMember(ctx, input)
		require.NoError(t, err)
	}

	notices, err := NewNotificationService(members).RenewalNotices(ctx, time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, notices, 2)

	assert.Equal(t, "late", notices[0].Member.Username)
	assert.Equal(t, 9, notices[0].DaysOverdue)
	assert.False(t, notices[0].DueToday)

	assert.Equal(t, "today", notices[1].Member.Username)
	assert.Equal(t, 0, notices[1].DaysOverdue)
	assert.True(t, notices[1].DueToday)
}

func TestRenewalNoticesEmptyRegistry(t *testing.T) {
	members := newMemberServiceForTest(newStubMemberRepository(), nil, civilDay(2024, time.January, 1))

	notices, err := NewNotificationService(members).RenewalNotices(context.Background(), civilDay(2024, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, notices)
}
