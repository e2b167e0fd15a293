package service

import (
	"context"
	"fmt"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/middleware"
	"github.com/mmynk/roomdraw/internal/models"
)

// callerOr returns studentID, or the caller when it is empty.
func callerOr(ctx context.Context, studentID string) string {
	if studentID == "" {
		return middleware.GetStudentID(ctx)
	}
	return studentID
}

func requireAdmin(ctx context.Context) error {
	if !middleware.IsAdmin(ctx) {
		return fmt.Errorf("%w: administrators only", housing.ErrNotAuthorized)
	}
	return nil
}

// requireSelf allows the student themselves and administrators.
func requireSelf(ctx context.Context, studentID string) error {
	if middleware.IsAdmin(ctx) || isCaller(ctx, studentID) {
		return nil
	}
	return fmt.Errorf("%w: %q cannot act for %s", housing.ErrNotAuthorized, middleware.GetStudentID(ctx), studentID)
}

// requireLeader allows the group's leader and administrators.
func requireLeader(ctx context.Context, g *models.Group) error {
	if middleware.IsAdmin(ctx) || isCaller(ctx, g.LeaderID) {
		return nil
	}
	return fmt.Errorf("%w: only the leader of group %s may do this", housing.ErrNotAuthorized, g.ID)
}

// requireLeaderOrSelf allows the group's leader, the student named, and administrators.
func requireLeaderOrSelf(ctx context.Context, g *models.Group, studentID string) error {
	if isCaller(ctx, studentID) {
		return nil
	}
	return requireLeader(ctx, g)
}

func isCaller(ctx context.Context, studentID string) bool {
	caller := middleware.GetStudentID(ctx)
	return caller != "" && caller == studentID
}
