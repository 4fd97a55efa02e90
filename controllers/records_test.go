package controllers

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"secure-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndList(t *testing.T) {
	s := NewRecordService(100)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	rec, err := s.Append("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", rec.Text)
	assert.Equal(t, now, rec.CreatedAt)
	assert.NotEmpty(t, rec.ID)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, rec, list[0])
}

func TestAppendValidation(t *testing.T) {
	s := NewRecordService(5)

	_, err := s.Append("   ")
	assert.ErrorIs(t, err, models.ErrEmptyRecord)

	_, err = s.Append("toolong")
	assert.ErrorIs(t, err, models.ErrRecordTooLong)

	_, err = s.Append("héllo")
	assert.NoError(t, err, "length counts runes, not bytes")

	assert.Equal(t, 1, s.Len())
}

func TestListIsSnapshot(t *testing.T) {
	s := NewRecordService(0)
	_, err := s.Append("a")
	require.NoError(t, err)

	first := s.List()
	second := s.List()
	assert.Equal(t, first, second)

	first[0].Text = "mutated"
	assert.Equal(t, "a", s.List()[0].Text)

	_, err = s.Append("b")
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestConcurrentAppends(t *testing.T) {
	s := NewRecordService(100)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(fmt.Sprintf("record-%d", i))
			assert.NoError(t, err)
		}(i)
	}

	// Lists taken mid-flight must only ever contain whole records.
	for i := 0; i < 20; i++ {
		for _, r := range s.List() {
			assert.True(t, strings.HasPrefix(r.Text, "record-"))
			assert.NotEmpty(t, r.ID)
		}
	}
	wg.Wait()

	list := s.List()
	require.Len(t, list, n)

	seen := make(map[string]bool, n)
	for i, r := range list {
		assert.False(t, seen[r.Text], "duplicate %s", r.Text)
		seen[r.Text] = true
		if i > 0 {
			assert.False(t, r.CreatedAt.Before(list[i-1].CreatedAt), "timestamps follow insertion order")
		}
	}
	for i := 0; i < n; i++ {
		assert.True(t, seen[fmt.Sprintf("record-%d", i)])
	}
}

func TestDefaultRecordText(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "New record 2024-03-01 09:30:05", DefaultRecordText(now))
}
