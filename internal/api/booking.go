package api

import (
	"context"
	"fmt"
	"strconv"
)

type bookRequest struct {
	StudentID int `json:"studentId"`
	SlotID    int `json:"slotId"`
}

// Slots lists open counselor time slots.
func (c *Client) Slots(ctx context.Context) ([]Slot, error) {
	var out []Slot
	if err := c.get(ctx, "/booking/slots", &out); err != nil {
		return nil, fmt.Errorf("booking slots: %w", err)
	}
	return out, nil
}

// BookSlot reserves a counselor slot for the student.
func (c *Client) BookSlot(ctx context.Context, studentID, slotID int) error {
	if err := c.post(ctx, "/booking/book", bookRequest{StudentID: studentID, SlotID: slotID}, nil); err != nil {
		return fmt.Errorf("book slot: %w", err)
	}
	return nil
}

// MyBookings lists the student's confirmed bookings.
func (c *Client) MyBookings(ctx context.Context, studentID int) ([]Booking, error) {
	var out []Booking
	if err := c.get(ctx, "/booking/my-bookings/"+strconv.Itoa(studentID), &out); err != nil {
		return nil, fmt.Errorf("my bookings: %w", err)
	}
	return out, nil
}
