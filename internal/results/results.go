package results

import (
	"context"

	"github.com/careercompass/compass/internal/api"
)

// View-only aggregation of the final result set. All scoring happened
// server-side; this package only arranges what came back.

const (
	// MaxCareers bounds how many recommended careers get college
	// enrichment, matching the platform's web client.
	MaxCareers = 6

	// MaxCollegesPerCareer bounds the colleges listed under one career.
	MaxCollegesPerCareer = 5
)

// Client is the slice of the API surface the results view reads.
type Client interface {
	FinalResults(ctx context.Context, studentID int) ([]api.CategoryScore, error)
	RecommendedCareers(ctx context.Context, studentID int) ([]api.Career, error)
	CollegesForCareer(ctx context.Context, careerID int) ([]api.College, error)
}

// Summary is everything the results screen renders. Scores keep the
// server's row order; nothing is re-sorted locally.
type Summary struct {
	Scores   []api.CategoryScore
	Careers  []api.Career
	Colleges map[int][]api.College
}

// Empty reports whether the server has no results yet (assessment never
// finished); callers route back to the assessment start in that case.
func (s *Summary) Empty() bool {
	return len(s.Scores) == 0
}

// TopCategory returns the headline category: the first one carrying the
// maximum total, in the order the server returned the rows. On a tie
// the earlier row wins — the platform defines no business rule for
// ties, so the documented behavior is first-encountered.
func (s *Summary) TopCategory() (string, bool) {
	if len(s.Scores) == 0 {
		return "", false
	}
	top := s.Scores[0]
	for _, row := range s.Scores[1:] {
		if row.Total > top.Total {
			top = row
		}
	}
	return top.Category, true
}

// Load fetches the summary. Only the score fetch is load-bearing:
// careers failing yields an empty careers section, and each career's
// college fetch degrades independently to an empty list.
func Load(ctx context.Context, client Client, studentID int) (*Summary, error) {
	scores, err := client.FinalResults(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Scores:   scores,
		Colleges: make(map[int][]api.College),
	}

	careers, err := client.RecommendedCareers(ctx, studentID)
	if err != nil {
		return sum, nil
	}
	if len(careers) > MaxCareers {
		careers = careers[:MaxCareers]
	}
	sum.Careers = careers

	for _, career := range careers {
		colleges, err := client.CollegesForCareer(ctx, career.ID)
		if err != nil {
			continue
		}
		if len(colleges) > MaxCollegesPerCareer {
			colleges = colleges[:MaxCollegesPerCareer]
		}
		sum.Colleges[career.ID] = colleges
	}

	return sum, nil
}
