package coordinator

import (
	"context"

	"github.com/househunt/househunt-go/internal/model"
)

// Coordinator holds the collection coordinators of one session.
type Coordinator struct {
	Requirements *Collection[model.RequirementItem]
	Shortlist    *Collection[model.ShortlistItem]
}

func New(ctx context.Context, requirements Store[model.RequirementItem], shortlist Store[model.ShortlistItem], active ActiveFunc) *Coordinator {
	return &Coordinator{
		Requirements: NewCollection(ctx, requirements, active),
		Shortlist:    NewCollection(ctx, shortlist, active),
	}
}

// Refresh reloads every collection.
func (c *Coordinator) Refresh() {
	c.Requirements.Refresh()
	c.Shortlist.Refresh()
}

// Wait blocks until every collection is idle.
func (c *Coordinator) Wait(ctx context.Context) error {
	if err := c.Requirements.Wait(ctx); err != nil {
		return err
	}
	return c.Shortlist.Wait(ctx)
}

func (c *Coordinator) Close() {
	c.Requirements.Close()
	c.Shortlist.Close()
}
