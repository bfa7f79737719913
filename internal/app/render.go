package app

import "fmt"

const (
	PlaceholderEmpty = "No tasks found"
	LabelAdd         = "Add Task"
	LabelUpdate      = "Update Task"
)

type Row struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Editing     bool
}

// View is everything a front end needs to draw one frame.
type View struct {
	Rows               []Row
	Placeholder        string // set only when Rows is empty
	Counter            string
	ShowClearCompleted bool
	SubmitLabel        string
	ShowCancel         bool
	Filter             Filter
	Form               Form
	Notice             string
}

// Render is a pure function of s. Rows keep mirror order; the counter always
// covers the unfiltered mirror.
func Render(s State) View {
	v := View{
		Filter:      s.Filter,
		Form:        s.Form,
		Notice:      s.Notice,
		SubmitLabel: LabelAdd,
		ShowCancel:  s.IsEditing(),
	}
	if s.IsEditing() {
		v.SubmitLabel = LabelUpdate
	}

	active := 0
	for _, t := range s.Tasks {
		if !t.Completed {
			active++
		} else {
			v.ShowClearCompleted = true
		}
		if !s.Filter.Match(t) {
			continue
		}
		v.Rows = append(v.Rows, Row{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Editing:     s.Editing == t.ID,
		})
	}
	if len(v.Rows) == 0 {
		v.Placeholder = PlaceholderEmpty
	}
	v.Counter = fmt.Sprintf("%d active / %d total", active, len(s.Tasks))
	return v
}
