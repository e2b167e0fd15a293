package service

import (
	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/pkg/rpc"
)

func groupMessage(g *models.Group) *rpc.Group {
	memberships := make([]rpc.Membership, len(g.Memberships))
	for i, m := range g.Memberships {
		memberships[i] = rpc.Membership{
			StudentID:   m.StudentID,
			StudentName: m.StudentName,
			Status:      string(m.Status),
		}
	}
	return &rpc.Group{
		ID:            g.ID,
		Name:          g.Name(),
		Size:          g.Size,
		Status:        string(g.Status),
		LeaderID:      g.LeaderID,
		DrawID:        g.DrawID,
		Transfers:     g.Transfers,
		SuiteID:       g.SuiteID,
		LotteryNumber: g.LotteryNumber,
		Members:       g.Members(),
		Requests:      g.Requests(),
		Invitations:   g.Invitations(),
		Removable:     g.RemovableMembers(),
		Lockable:      g.Lockable(),
		Memberships:   memberships,
		CreatedAt:     g.CreatedAt,
		Version:       g.Version,
	}
}

func drawMessage(d *models.Draw) *rpc.Draw {
	return &rpc.Draw{
		ID:              d.ID,
		Name:            d.Name,
		Status:          string(d.Status),
		LotteryAssigned: d.LotteryAssigned,
		CreatedAt:       d.CreatedAt,
	}
}

func studentMessage(st *models.Student) *rpc.Student {
	return &rpc.Student{
		ID:            st.ID,
		Name:          st.Name,
		Email:         st.Email,
		Role:          string(st.Role),
		Intent:        string(st.Intent),
		DrawID:        st.DrawID,
		LotteryNumber: st.LotteryNumber,
	}
}

func sizeSummaries(suites []*models.Suite) []rpc.SizeSummary {
	summary := housing.SummarizeSuites(suites)
	out := make([]rpc.SizeSummary, len(summary))
	for i, sum := range summary {
		out[i] = rpc.SizeSummary{Size: sum.Size, Available: sum.Available, Assigned: sum.Assigned}
	}
	return out
}
