package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/session"
)

// Target identifies one input of the editor.
type Target struct {
	GroupID    string
	ExerciseID string
	SetNumber  int // 0 for exercise-level fields
	Field      session.Field
}

type cell struct {
	group    int
	exercise int
	set      int
	field    session.Field
	input    textinput.Model
}

var cellWidths = map[session.Field]int{
	session.FieldName:           28,
	session.FieldEquipment:      13,
	session.FieldBenchAngle:     10,
	session.FieldGripWidth:      8,
	session.FieldAttachment:     13,
	session.FieldWeight:         6,
	session.FieldRepsUnassisted: 3,
	session.FieldRepsAssisted:   3,
	session.FieldRPE:            4,
}

var cellPlaceholders = map[session.Field]string{
	session.FieldName:           "exercise name",
	session.FieldEquipment:      "equipment",
	session.FieldBenchAngle:     "angle",
	session.FieldGripWidth:      "grip",
	session.FieldAttachment:     "attachment",
	session.FieldWeight:         "0",
	session.FieldRepsUnassisted: "0",
	session.FieldRepsAssisted:   "0",
	session.FieldRPE:            "8",
}

// Editor is the workout form of the TUI. It implements session.View: every
// Render throws away the inputs and rebuilds them, and State reads their
// current text back in display order.
type Editor struct {
	layout session.ViewState
	types  map[string]models.GroupType
	cells  []cell
	focus  int
	dirty  bool
}

func NewEditor() *Editor {
	return &Editor{types: map[string]models.GroupType{}}
}

func (e *Editor) Render(w models.Workout) {
	keep, hadFocus := e.Focused()
	e.types = make(map[string]models.GroupType, len(w.Groups))
	for _, g := range w.Groups {
		e.types[g.GroupID] = g.GroupType
	}
	e.load(session.RenderState(w))
	e.dirty = false
	if !hadFocus || !e.Focus(keep) {
		e.setFocus(e.focus)
	}
}

func (e *Editor) State() session.ViewState {
	s := cloneLayout(e.layout)
	for _, c := range e.cells {
		es := &s.Groups[c.group].Exercises[c.exercise]
		assign(es, c.set, c.field, c.input.Value())
	}
	return s
}

func (e *Editor) load(s session.ViewState) {
	e.layout = cloneLayout(s)
	e.cells = e.cells[:0]
	for gi, g := range s.Groups {
		for ei, ex := range g.Exercises {
			for f := session.FieldName; f <= session.FieldAttachment; f++ {
				e.cells = append(e.cells, newCell(gi, ei, 0, f, value(&ex, 0, f)))
			}
			for si := range ex.Sets {
				for f := session.FieldWeight; f <= session.FieldRPE; f++ {
					e.cells = append(e.cells, newCell(gi, ei, si+1, f, value(&ex, si+1, f)))
				}
			}
		}
	}
}

func newCell(group, exercise, set int, f session.Field, v string) cell {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = cellPlaceholders[f]
	ti.Width = cellWidths[f]
	ti.SetValue(v)
	return cell{group: group, exercise: exercise, set: set, field: f, input: ti}
}

func (e *Editor) target(c cell) Target {
	g := e.layout.Groups[c.group]
	return Target{
		GroupID:    g.GroupID,
		ExerciseID: g.Exercises[c.exercise].ExerciseID,
		SetNumber:  c.set,
		Field:      c.field,
	}
}

// Focused reports the input under the cursor.
func (e *Editor) Focused() (Target, bool) {
	if e.focus < 0 || e.focus >= len(e.cells) {
		return Target{}, false
	}
	return e.target(e.cells[e.focus]), true
}

// Focus moves the cursor to t. It reports false when t is not displayed.
func (e *Editor) Focus(t Target) bool {
	for i, c := range e.cells {
		if e.target(c) == t {
			e.setFocus(i)
			return true
		}
	}
	return false
}

// FocusExercise moves the cursor to the name of an exercise.
func (e *Editor) FocusExercise(groupID, exerciseID string) bool {
	return e.Focus(Target{GroupID: groupID, ExerciseID: exerciseID, Field: session.FieldName})
}

func (e *Editor) setFocus(i int) {
	if len(e.cells) == 0 {
		e.focus = 0
		return
	}
	i = max(0, min(i, len(e.cells)-1))
	for j := range e.cells {
		if j == i {
			e.cells[j].input.Focus()
		} else {
			e.cells[j].input.Blur()
		}
	}
	e.focus = i
}

func (e *Editor) Next() { e.setFocus(e.focus + 1) }
func (e *Editor) Prev() { e.setFocus(e.focus - 1) }

// NextRow jumps to the same field of the next row, or the next row's first
// input when the field does not repeat.
func (e *Editor) NextRow() {
	e.jumpRow(1)
}

func (e *Editor) PrevRow() {
	e.jumpRow(-1)
}

func (e *Editor) jumpRow(dir int) {
	if len(e.cells) == 0 {
		return
	}
	cur := e.cells[e.focus]
	i := e.focus
	for {
		i += dir
		if i < 0 || i >= len(e.cells) {
			return
		}
		c := e.cells[i]
		if c.group == cur.group && c.exercise == cur.exercise && c.set == cur.set {
			continue
		}
		// Land on the start of the row reached, then look for the same field
		start := i
		for start-1 >= 0 && sameRow(e.cells[start-1], c) {
			start--
		}
		for j := start; j < len(e.cells) && sameRow(e.cells[j], c); j++ {
			if e.cells[j].field == cur.field {
				e.setFocus(j)
				return
			}
		}
		e.setFocus(start)
		return
	}
}

func sameRow(a, b cell) bool {
	return a.group == b.group && a.exercise == b.exercise && a.set == b.set
}

// MoveGroup shifts the focused group by delta positions, keeping all typed
// values. It reports false when the group is already at the edge.
func (e *Editor) MoveGroup(delta int) bool {
	t, ok := e.Focused()
	if !ok {
		return false
	}
	s := e.State()
	from := e.cells[e.focus].group
	to := from + delta
	if to < 0 || to >= len(s.Groups) {
		return false
	}
	s.Groups[from], s.Groups[to] = s.Groups[to], s.Groups[from]
	e.load(s)
	e.dirty = true
	e.Focus(t)
	return true
}

// TakeDirty reports whether any input changed since the last call or Render.
func (e *Editor) TakeDirty() bool {
	d := e.dirty
	e.dirty = false
	return d
}

// Update forwards msg to the focused input. Editing a weight or rep count
// re-estimates the RPE of that row.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if e.focus < 0 || e.focus >= len(e.cells) {
		return nil
	}
	c := &e.cells[e.focus]
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() == before {
		return cmd
	}
	e.dirty = true
	if c.set > 0 && c.field != session.FieldRPE {
		e.reestimate(c.group, c.exercise, c.set)
	}
	return cmd
}

func (e *Editor) reestimate(group, exercise, set int) {
	var row session.SetState
	rpeAt := -1
	for i, c := range e.cells {
		if c.group != group || c.exercise != exercise || c.set != set {
			continue
		}
		switch c.field {
		case session.FieldWeight:
			row.Weight = c.input.Value()
		case session.FieldRepsUnassisted:
			row.RepsUnassisted = c.input.Value()
		case session.FieldRepsAssisted:
			row.RepsAssisted = c.input.Value()
		case session.FieldRPE:
			row.RPE = c.input.Value()
			rpeAt = i
		}
	}
	if rpeAt < 0 {
		return
	}
	session.Reestimate(&row)
	e.cells[rpeAt].input.SetValue(row.RPE)
}

// View draws the form. summaries holds the history line of each exercise by
// id; height bounds the output around the focused input, 0 means unbounded.
func (e *Editor) View(summaries map[string]string, height int) string {
	if len(e.cells) == 0 {
		return mutedStyle.Render("No exercises yet. Press ctrl+o to add one or ctrl+g for a superset.")
	}

	var lines []string
	focusLine := 0
	i := 0
	for gi, g := range e.layout.Groups {
		lines = append(lines, groupStyle.Render(fmt.Sprintf("%d. %s", gi+1, e.types[g.GroupID].Label())))
		for ei, ex := range g.Exercises {
			var row []string
			for ; i < len(e.cells) && e.cells[i].group == gi && e.cells[i].exercise == ei && e.cells[i].set == 0; i++ {
				if i == e.focus {
					focusLine = len(lines)
				}
				row = append(row, e.renderCell(e.cells[i]))
			}
			lines = append(lines, fmt.Sprintf("  %d.%d %s", gi+1, ei+1, strings.Join(row, " ")))
			if s, ok := summaries[ex.ExerciseID]; ok {
				lines = append(lines, "      "+summaryStyle.Render(s))
			}
			for si := range ex.Sets {
				row = row[:0]
				for ; i < len(e.cells) && e.cells[i].group == gi && e.cells[i].exercise == ei && e.cells[i].set == si+1; i++ {
					if i == e.focus {
						focusLine = len(lines)
					}
					row = append(row, e.renderCell(e.cells[i]))
				}
				lines = append(lines, fmt.Sprintf("      set %d  %s", si+1, strings.Join(row, " ")))
			}
		}
		lines = append(lines, "")
	}

	if height > 0 && len(lines) > height {
		start := max(0, min(focusLine-height/2, len(lines)-height))
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func (e *Editor) renderCell(c cell) string {
	style := cellStyle
	if c.input.Focused() {
		style = focusedCellStyle
	} else if !validEnum(c.field, c.input.Value()) {
		style = invalidCellStyle
	}
	label := ""
	switch c.field {
	case session.FieldWeight:
		label = "w "
	case session.FieldRepsUnassisted:
		label = "reps "
	case session.FieldRepsAssisted:
		label = "+"
	case session.FieldRPE:
		label = "RPE "
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, mutedStyle.Render(label), style.Render(c.input.View()))
}

// validEnum reports whether v would be accepted for f. Free-text and numeric
// fields are always accepted since Pull coerces them.
func validEnum(f session.Field, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	var err error
	switch f {
	case session.FieldEquipment:
		_, err = models.ParseEquipment(v)
	case session.FieldBenchAngle:
		_, err = models.ParseBenchAngle(v)
	case session.FieldGripWidth:
		_, err = models.ParseGripWidth(v)
	case session.FieldAttachment:
		_, err = models.ParseAttachment(v)
	}
	return err == nil
}

func value(es *session.ExerciseState, set int, f session.Field) string {
	if set > 0 {
		row := es.Sets[set-1]
		switch f {
		case session.FieldWeight:
			return row.Weight
		case session.FieldRepsUnassisted:
			return row.RepsUnassisted
		case session.FieldRepsAssisted:
			return row.RepsAssisted
		case session.FieldRPE:
			return row.RPE
		}
		return ""
	}
	switch f {
	case session.FieldName:
		return es.Name
	case session.FieldEquipment:
		return es.Equipment
	case session.FieldBenchAngle:
		return es.BenchAngle
	case session.FieldGripWidth:
		return es.GripWidth
	case session.FieldAttachment:
		return es.Attachment
	}
	return ""
}

func assign(es *session.ExerciseState, set int, f session.Field, v string) {
	if set > 0 {
		row := &es.Sets[set-1]
		switch f {
		case session.FieldWeight:
			row.Weight = v
		case session.FieldRepsUnassisted:
			row.RepsUnassisted = v
		case session.FieldRepsAssisted:
			row.RepsAssisted = v
		case session.FieldRPE:
			row.RPE = v
		}
		return
	}
	switch f {
	case session.FieldName:
		es.Name = v
	case session.FieldEquipment:
		es.Equipment = v
	case session.FieldBenchAngle:
		es.BenchAngle = v
	case session.FieldGripWidth:
		es.GripWidth = v
	case session.FieldAttachment:
		es.Attachment = v
	}
}

func cloneLayout(s session.ViewState) session.ViewState {
	out := session.ViewState{Groups: make([]session.GroupState, len(s.Groups))}
	for gi, g := range s.Groups {
		exs := make([]session.ExerciseState, len(g.Exercises))
		for ei, ex := range g.Exercises {
			sets := make([]session.SetState, len(ex.Sets))
			copy(sets, ex.Sets)
			ex.Sets = sets
			exs[ei] = ex
		}
		out.Groups[gi] = session.GroupState{GroupID: g.GroupID, Exercises: exs}
	}
	return out
}
