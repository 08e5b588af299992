package api

import (
	"context"
	"fmt"
	"strconv"
)

// RecommendedCareers fetches the career matches the server derived from
// the student's finished assessment.
func (c *Client) RecommendedCareers(ctx context.Context, studentID int) ([]Career, error) {
	var out []Career
	if err := c.get(ctx, "/career/recommended/"+strconv.Itoa(studentID), &out); err != nil {
		return nil, fmt.Errorf("recommended careers: %w", err)
	}
	return out, nil
}

// CollegesForCareer fetches colleges offering programs for one career.
// Results pages treat a failure here as a degraded (empty) list.
func (c *Client) CollegesForCareer(ctx context.Context, careerID int) ([]College, error) {
	var out []College
	if err := c.get(ctx, "/career/colleges/"+strconv.Itoa(careerID), &out); err != nil {
		return nil, fmt.Errorf("colleges for career %d: %w", careerID, err)
	}
	return out, nil
}
