package report

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/topology"
)

// Sentinel errors for record construction.
var (
	// ErrInvalidName indicates an empty name or one with disallowed characters.
	ErrInvalidName = errors.New("report: invalid path name")
	// ErrNothingToSave indicates an attempt to persist a negative result.
	ErrNothingToSave = errors.New("report: result has no path to save")
)

// TimeLayout is the ISO-8601 layout used for CreatedAt (UTC, millisecond precision).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var validName = regexp.MustCompile(`^[\w\s\-@#!.,()\[\]&*%$^+=]+$`)

// Record is the persisted shape of one saved run.
type Record struct {
	ID          string              `json:"id"`
	UserID      string              `json:"uid"`
	Name        string              `json:"name"`
	Algorithm   search.Algorithm    `json:"algorithm"`
	Path        []topology.Position `json:"path"`
	PathLength  int                 `json:"pathLength"`
	TimeTaken   int64               `json:"timeTaken"`
	GridSize    int                 `json:"gridSize"`
	GridType    topology.Shape      `json:"gridType"`
	OverrideMud bool                `json:"overrideMud"`
	TotalCost   float64             `json:"totalCost"`
	CreatedAt   string              `json:"createdAt"`
}

// RecordInput carries the run context a Record needs beyond the Annotated result.
type RecordInput struct {
	UserID      string
	Name        string
	GridSize    int
	GridType    topology.Shape
	OverrideMud bool
}

// ValidateName trims name and checks it against the allowed character set.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if !validName.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q contains invalid characters", ErrInvalidName, trimmed)
	}
	return trimmed, nil
}

// NewRecord builds a Record for a, stamped with now and a fresh UUID.
// Returns ErrNothingToSave for a negative result and ErrInvalidName for a bad name.
func NewRecord(in RecordInput, a Annotated, now time.Time) (Record, error) {
	if !a.Found {
		return Record{}, ErrNothingToSave
	}
	name, err := ValidateName(in.Name)
	if err != nil {
		return Record{}, err
	}

	path := make([]topology.Position, len(a.Path))
	copy(path, a.Path)

	return Record{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Name:        name,
		Algorithm:   a.Algorithm,
		Path:        path,
		PathLength:  a.PathLength,
		TimeTaken:   a.TimeTakenMs,
		GridSize:    in.GridSize,
		GridType:    in.GridType,
		OverrideMud: in.OverrideMud,
		TotalCost:   float64(a.TotalCost),
		CreatedAt:   now.UTC().Format(TimeLayout),
	}, nil
}

// Created parses CreatedAt.
func (r Record) Created() (time.Time, error) {
	return time.Parse(TimeLayout, r.CreatedAt)
}

// Render rebuilds the record's mark grid.
func (r Record) Render() ([][]Mark, error) {
	return Render(r.GridSize, r.GridType, r.Path)
}
