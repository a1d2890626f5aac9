// Package library holds the client-side mirror of the finished-tutorial
// collection. The server owns the collection; this mirror is replaced
// wholesale on every successful list and only shrinks after the server has
// confirmed a delete.
package library

import "tutorial-studio/internal/model"

type Catalog struct {
	tutorials []model.Tutorial
	err       string

	// Selection state lives apart from collection identity so a refresh
	// never disturbs what the user is looking at.
	ExpandedID string
	PlayingID  string
}

func NewCatalog() *Catalog {
	return &Catalog{tutorials: []model.Tutorial{}}
}

func (c *Catalog) Tutorials() []model.Tutorial { return c.tutorials }
func (c *Catalog) Err() string                 { return c.err }
func (c *Catalog) Len() int                    { return len(c.tutorials) }

// ApplyList reconciles a list fetch: success replaces the collection
// wholesale, failure preserves the previous collection and records the error
// so the view can offer a retry.
func (c *Catalog) ApplyList(tutorials []model.Tutorial, err error) {
	if err != nil {
		c.err = err.Error()
		return
	}
	if tutorials == nil {
		tutorials = []model.Tutorial{}
	}
	c.tutorials = tutorials
	c.err = ""
}

// Remove drops the entry with the given id, preserving the order of the
// rest. Call it only after the server confirmed the delete. Selection state
// referencing the removed id is cleared so no view dangles on a gone entry.
func (c *Catalog) Remove(id string) bool {
	for i, t := range c.tutorials {
		if t.ID == id {
			c.tutorials = append(c.tutorials[:i], c.tutorials[i+1:]...)
			if c.ExpandedID == id {
				c.ExpandedID = ""
			}
			if c.PlayingID == id {
				c.PlayingID = ""
			}
			return true
		}
	}
	return false
}

func (c *Catalog) Find(id string) (model.Tutorial, bool) {
	for _, t := range c.tutorials {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tutorial{}, false
}

// Toggle expands the entry, or collapses it when it is already expanded.
func (c *Catalog) Toggle(id string) {
	if c.ExpandedID == id {
		c.ExpandedID = ""
		return
	}
	c.ExpandedID = id
}

func (c *Catalog) SetPlaying(id string) {
	c.PlayingID = id
}
