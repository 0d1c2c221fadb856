package fixtures

import (
	"fmt"
	"strconv"
	"time"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/api"
	"github.com/flanksource/clicky/task"
)

// NodeType represents the type of fixture node in the hierarchical tree structure.
// It distinguishes between suites, the named tests of a suite and the individual cases.
type NodeType int

const (
	// SuiteNode represents a suite file or a discovered fixture root.
	SuiteNode NodeType = iota
	// GroupNode groups the cases of one fixture name.
	GroupNode
	// CaseNode represents a single name/word version/browser case.
	CaseNode
)

// String returns a string representation of NodeType
func (nt NodeType) String() string {
	switch nt {
	case SuiteNode:
		return "suite"
	case GroupNode:
		return "group"
	case CaseNode:
		return "case"
	default:
		return "unknown"
	}
}

func (nt NodeType) Pretty() api.Text {
	return clicky.Text(nt.String(), "text-gray-500")
}

// FixtureResult represents the outcome of a single case as shown to the operator.
type FixtureResult struct {
	Name     string        `json:"name" pretty:"label=Case,style=text-blue-600"`
	Kind     string        `json:"kind,omitempty" pretty:"label=Kind,style=text-gray-500"`
	Status   task.Status   `json:"status,omitempty"`
	Duration time.Duration `json:"duration,omitempty" pretty:"label=Duration,style=text-yellow-600,omitempty"`
	Case     Descriptor    `json:"case"`

	// Path is the missing input or the expected fixture compared against
	Path  string `json:"path,omitempty" pretty:"label=Path,style=text-purple-500,omitempty"`
	Error string `json:"error,omitempty" pretty:"label=Error,style=text-red-600,omitempty"`
	Diff  string `json:"diff,omitempty" pretty:"label=Diff,omitempty"`
	// Skip is the reason given for skipped cases
	Skip  string     `json:"skip,omitempty" pretty:"label=Skip,omitempty"`
	Start *time.Time `json:"start,omitempty" pretty:"label=Start Time,omitempty"`
}

// NewFixtureResult converts a case outcome into a result
func NewFixtureResult(o Outcome) FixtureResult {
	r := FixtureResult{
		Name:     o.Descriptor.String(),
		Kind:     o.Kind.String(),
		Status:   o.Status(),
		Duration: o.Duration,
		Case:     o.Descriptor,
		Path:     o.Path,
		Diff:     o.Diff,
	}
	switch o.Kind {
	case Skipped:
		r.Skip = o.Message
	case Passed, Ready:
	default:
		r.Error = o.Message
	}
	return r
}

func (f FixtureResult) String() string {
	return fmt.Sprintf("%s - %s", f.Name, f.Status.String())
}

func (f FixtureResult) Pretty() api.Text {
	t := f.Status.Pretty().Append(" ").Append(f.Name, "italic text-orange-500")

	if f.Path != "" && !f.IsOK() {
		t = t.Space().Append(f.Path, "text-purple-500")
	}
	if f.Error != "" {
		t = t.Space().Append(f.Error, "text-red-600")
	}
	if f.Skip != "" {
		t = t.Space().Append(f.Skip, "text-yellow-600")
	}
	if f.Duration > 0 {
		t = t.Space().Append(fmt.Sprintf("(%s)", f.Duration.Round(time.Millisecond)), "text-gray-500")
	}
	if f.Diff != "" {
		t = t.NewLine().Append(f.Diff, "wrap-space")
	}
	return t
}

func (f FixtureResult) IsOK() bool {
	return f.Status.Health() == task.HealthOK
}

// Stats provides summary statistics for a set of cases.
type Stats struct {
	Total   int `json:"total,omitempty"`
	Passed  int `json:"passed,omitempty"`
	Failed  int `json:"failed,omitempty"`
	Skipped int `json:"skipped,omitempty"`
	Error   int `json:"error,omitempty"`
}

func (s Stats) Merge(o Stats) Stats {
	return Stats{
		Total:   s.Total + o.Total,
		Passed:  s.Passed + o.Passed,
		Failed:  s.Failed + o.Failed,
		Skipped: s.Skipped + o.Skipped,
		Error:   s.Error + o.Error,
	}
}

func (s Stats) Add(result *FixtureResult) Stats {
	if result == nil {
		return s
	}
	s.Total++
	switch result.Status {
	case task.StatusFailed, task.StatusFAIL:
		s.Failed++
	case task.StatusPASS, task.StatusSuccess:
		s.Passed++
	case task.StatusSKIP:
		s.Skipped++
	case task.StatusERR, task.StatusCancelled:
		s.Error++
	}
	return s
}

func (s Stats) IsOK() bool {
	return s.Failed == 0 && s.Error == 0
}

func (s Stats) HasFailures() bool {
	return s.Failed > 0 || s.Error > 0
}

// Pretty prints status, with green for passed red for failed and yellow for skipped
func (s Stats) Pretty() api.Text {
	t := api.Text{}
	if s.Passed > 0 {
		t = t.Append(strconv.Itoa(s.Passed), "text-green-500")
	}
	if s.Failed > 0 {
		if !t.IsEmpty() {
			t = t.Append("/", "text-gray-500")
		}
		t = t.Append(strconv.Itoa(s.Failed), "text-red-500")
	}
	if s.Skipped > 0 {
		t = t.Append(fmt.Sprintf(" %d skipped", s.Skipped), "text-yellow-500")
	}
	if s.Error > 0 {
		t = t.Append(fmt.Sprintf(" %d errors", s.Error), "text-red-500")
	}
	return t
}

func (s Stats) String() string {
	if s.Total == 0 {
		return "-"
	}
	str := fmt.Sprintf("%d/%d", s.Passed, s.Failed+s.Passed)

	if s.Skipped > 0 {
		str += fmt.Sprintf(" %d skipped", s.Skipped)
	}
	if s.Error > 0 {
		str += fmt.Sprintf(" %d error", s.Error)
	}
	return str
}

func (s Stats) Health() task.Health {
	if s.Failed+s.Error > 0 {
		return task.HealthError
	}
	if s.Total == 0 || s.Skipped > 0 {
		return task.HealthWarning
	}
	return task.HealthOK
}

// FixtureNode represents a node in the result tree: suites contain one group per fixture
// name, groups contain the cases.
type FixtureNode struct {
	Name     string         `json:"name" pretty:"label"`
	Type     NodeType       `json:"type" pretty:"type"`
	Children []*FixtureNode `json:"children,omitempty"`
	Parent   *FixtureNode   `json:"-"`
	Case     *Descriptor    `json:"case,omitempty"`    // Only populated for case nodes
	Results  *FixtureResult `json:"results,omitempty"` // Only populated after execution
	Stats    *Stats         `json:"stats,omitempty"`   // Aggregated statistics for suites and groups
}

// NewSuiteNode builds the tree of a suite's cases, grouped by fixture name in the order given.
func NewSuiteNode(name string, descriptors []Descriptor) *FixtureNode {
	root := &FixtureNode{Name: name, Type: SuiteNode}
	groups := map[string]*FixtureNode{}
	for i := range descriptors {
		d := descriptors[i]
		group, ok := groups[d.Name]
		if !ok {
			group = &FixtureNode{Name: d.Name, Type: GroupNode}
			groups[d.Name] = group
			root.AddChild(group)
		}
		group.AddChild(&FixtureNode{Name: d.String(), Type: CaseNode, Case: &d})
	}
	return root
}

// AddChild adds a child node to this node
func (fn *FixtureNode) AddChild(child *FixtureNode) {
	child.Parent = fn
	fn.Children = append(fn.Children, child)
}

func (fn FixtureNode) GetStats() Stats {
	s := Stats{}.Add(fn.Results)
	for _, child := range fn.Children {
		s = s.Merge(child.GetStats())
	}
	return s
}

// UpdateStats calculates and updates the Stats field for this node and its descendants
func (fn *FixtureNode) UpdateStats() {
	for _, child := range fn.Children {
		child.UpdateStats()
	}
	if fn.Type != CaseNode {
		stats := fn.GetStats()
		fn.Stats = &stats
	}
}

// Walk visits all case nodes in the tree
func (fn *FixtureNode) Walk(visitor func(f *FixtureNode)) {
	if fn.Case != nil {
		visitor(fn)
	}
	for _, child := range fn.Children {
		child.Walk(visitor)
	}
}

// AllResults returns the results of all executed cases in this subtree
func (fn *FixtureNode) AllResults() []FixtureResult {
	var results []FixtureResult
	fn.Walk(func(f *FixtureNode) {
		if f.Results != nil {
			results = append(results, *f.Results)
		}
	})
	return results
}

// PruneSkipped removes cases that were skipped, and groups left without cases.
func (fn *FixtureNode) PruneSkipped() {
	if fn == nil || fn.Children == nil {
		return
	}
	for _, child := range fn.Children {
		child.PruneSkipped()
	}

	filtered := make([]*FixtureNode, 0, len(fn.Children))
	for _, child := range fn.Children {
		switch {
		case child.Type == CaseNode && child.Results != nil && child.Results.Status == task.StatusSKIP:
		case child.Type == GroupNode && len(child.Children) == 0:
		default:
			filtered = append(filtered, child)
		}
	}
	fn.Children = filtered
}

func (fn FixtureNode) Pretty() api.Text {
	if fn.Results != nil {
		return fn.Results.Pretty()
	}

	s := clicky.Text("").Add(fn.Type.Pretty()).Append(" ").Append(fn.Name)
	if fn.Stats != nil {
		s = s.Append(" (").Add(fn.Stats.Pretty()).Append(")")
	}
	return s
}

func (fn FixtureNode) GetChildren() []api.TreeNode {
	nodes := make([]api.TreeNode, len(fn.Children))
	for i, child := range fn.Children {
		nodes[i] = child.Tree()
	}
	return nodes
}

// Tree returns a TreeNode representation of this FixtureNode
func (fn *FixtureNode) Tree() api.TreeNode {
	return &FixtureTreeNode{fixture: fn}
}

// FixtureTreeNode is an internal TreeNode implementation for FixtureNode
type FixtureTreeNode struct {
	fixture *FixtureNode
}

func (ftn FixtureTreeNode) Pretty() api.Text {
	f := ftn.fixture
	if f.Results != nil {
		return f.Results.Pretty()
	}

	var icon string
	switch f.Type {
	case SuiteNode:
		icon = "📁"
	case GroupNode:
		icon = "📂"
	default:
		icon = "📄"
	}
	content := fmt.Sprintf("%s %s", icon, f.Name)

	if f.Type != CaseNode && f.Stats != nil && f.Stats.Total > 0 {
		content = fmt.Sprintf("%s (%d/%d passed)", content, f.Stats.Passed, f.Stats.Total)
	}

	var style string
	if f.Stats != nil {
		style = f.Stats.Health().Style()
	} else {
		switch f.Type {
		case SuiteNode:
			style = "text-blue-600 font-bold"
		case GroupNode:
			style = "text-blue-500"
		}
	}

	return api.Text{
		Content: content,
		Style:   style,
	}
}

func (ftn FixtureTreeNode) GetChildren() []api.TreeNode {
	if len(ftn.fixture.Children) == 0 {
		return nil
	}
	nodes := make([]api.TreeNode, len(ftn.fixture.Children))
	for i, child := range ftn.fixture.Children {
		nodes[i] = child.Tree()
	}
	return nodes
}
