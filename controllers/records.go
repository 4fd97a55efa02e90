package controllers

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"secure-dashboard/models"

	"github.com/google/uuid"
)

// RecordService owns the append-only record list. Records live only as
// long as the process.
type RecordService struct {
	mu        sync.RWMutex
	records   []models.Record
	maxLength int
	now       func() time.Time
}

func NewRecordService(maxLength int) *RecordService {
	if maxLength <= 0 {
		maxLength = models.MaxRecordLength
	}
	return &RecordService{maxLength: maxLength, now: time.Now}
}

// Append stamps text with the current time and adds it to the end of the list.
func (s *RecordService) Append(text string) (models.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Record{}, models.ErrEmptyRecord
	}
	if utf8.RuneCountInString(text) > s.maxLength {
		return models.Record{}, models.ErrRecordTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.Record{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.records = append(s.records, record)

	return record, nil
}

// List returns a copy of all records in insertion order.
func (s *RecordService) List() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// DefaultRecordText is used when the form carries no text.
func DefaultRecordText(now time.Time) string {
	return "New record " + now.Format(time.DateTime)
}
