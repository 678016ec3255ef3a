// Package loretypes holds the data model shared by every lore store
// (spec.md §3): decisions, patterns, anti-patterns, failures, graph nodes
// and edges, sessions, goals, and inbox observations.
package loretypes

import "time"

// DecisionOutcome is the lifecycle outcome of a decision.
type DecisionOutcome string

const (
	OutcomePending    DecisionOutcome = "pending"
	OutcomeSuccessful DecisionOutcome = "successful"
	OutcomeRevised    DecisionOutcome = "revised"
	OutcomeAbandoned  DecisionOutcome = "abandoned"
)

// DecisionType classifies a decision by subject matter.
type DecisionType string

const (
	TypeArchitecture    DecisionType = "architecture"
	TypeImplementation  DecisionType = "implementation"
	TypeNaming          DecisionType = "naming"
	TypeTooling         DecisionType = "tooling"
	TypeProcess         DecisionType = "process"
	TypeBugfix          DecisionType = "bugfix"
	TypeRefactor        DecisionType = "refactor"
	TypeOther           DecisionType = "other"
)

// DecisionStatus tracks supersession/retraction.
type DecisionStatus string

const (
	StatusActive     DecisionStatus = "active"
	StatusSuperseded DecisionStatus = "superseded"
	StatusRetracted  DecisionStatus = "retracted"
)

// Decision is a single revision of a decision-journal entry. Revisions
// share an ID; the journal store treats the latest-by-timestamp revision
// per ID as current (spec.md §3, §4.2).
type Decision struct {
	ID               string          `json:"id"`
	Timestamp        time.Time       `json:"timestamp"`
	SessionID        string          `json:"session_id,omitempty"`
	Decision         string          `json:"decision"`
	Rationale        string          `json:"rationale,omitempty"`
	Alternatives     []string        `json:"alternatives,omitempty"`
	Outcome          DecisionOutcome `json:"outcome"`
	Type             DecisionType    `json:"type"`
	Entities         []string        `json:"entities,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	LessonLearned    string          `json:"lesson_learned,omitempty"`
	RelatedDecisions []string        `json:"related_decisions,omitempty"`
	GitCommit        string          `json:"git_commit,omitempty"`
	Status           DecisionStatus  `json:"status"`
	SupersededBy     string          `json:"superseded_by,omitempty"`
	SpecQuality      float64         `json:"spec_quality"`
}

// PatternCategory classifies a pattern or anti-pattern.
type PatternCategory string

const (
	CategoryBash        PatternCategory = "bash"
	CategoryGit         PatternCategory = "git"
	CategoryTesting     PatternCategory = "testing"
	CategoryArchitecture PatternCategory = "architecture"
	CategoryNaming      PatternCategory = "naming"
	CategorySecurity    PatternCategory = "security"
	CategoryDocker      PatternCategory = "docker"
	CategoryAPI         PatternCategory = "api"
	CategoryPerformance PatternCategory = "performance"
	CategoryGeneral     PatternCategory = "general"
)

// PatternExamples holds optional bad/good code samples for a pattern.
type PatternExamples struct {
	Bad  string `yaml:"bad,omitempty" json:"bad,omitempty"`
	Good string `yaml:"good,omitempty" json:"good,omitempty"`
}

// Pattern is a captured reusable solution (spec.md §3).
type Pattern struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Context     string           `yaml:"context" json:"context"`
	Problem     string           `yaml:"problem" json:"problem"`
	Solution    string           `yaml:"solution" json:"solution"`
	Category    PatternCategory  `yaml:"category" json:"category"`
	Origin      string           `yaml:"origin,omitempty" json:"origin,omitempty"`
	Confidence  float64          `yaml:"confidence" json:"confidence"`
	Validations int              `yaml:"validations" json:"validations"`
	CreatedAt   time.Time        `yaml:"created_at" json:"created_at"`
	SpecQuality float64          `yaml:"spec_quality" json:"spec_quality"`
	Examples    *PatternExamples `yaml:"examples,omitempty" json:"examples,omitempty"`
	Deprecated  bool             `yaml:"deprecated" json:"deprecated"`
}

// AntiPatternSeverity ranks how damaging an anti-pattern is.
type AntiPatternSeverity string

const (
	SeverityLow      AntiPatternSeverity = "low"
	SeverityMedium   AntiPatternSeverity = "medium"
	SeverityHigh     AntiPatternSeverity = "high"
	SeverityCritical AntiPatternSeverity = "critical"
)

// AntiPattern is a documented recurring mistake (spec.md §3).
type AntiPattern struct {
	ID        string              `yaml:"id" json:"id"`
	Name      string              `yaml:"name" json:"name"`
	Symptom   string              `yaml:"symptom" json:"symptom"`
	Risk      string              `yaml:"risk" json:"risk"`
	Fix       string              `yaml:"fix" json:"fix"`
	Category  PatternCategory     `yaml:"category" json:"category"`
	Severity  AntiPatternSeverity `yaml:"severity" json:"severity"`
	CreatedAt time.Time           `yaml:"created_at" json:"created_at"`
}

// Failure is a single append-only failure log entry (spec.md §3).
type Failure struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ErrorType    string    `json:"error_type"`
	ErrorMessage string    `json:"error_message"`
	Tool         string    `json:"tool,omitempty"`
	Step         string    `json:"step,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
}

// NodeType classifies a graph node.
type NodeType string

const (
	NodeConcept  NodeType = "concept"
	NodeFile     NodeType = "file"
	NodePattern  NodeType = "pattern"
	NodeLesson   NodeType = "lesson"
	NodeDecision NodeType = "decision"
	NodeSession  NodeType = "session"
	NodeProject  NodeType = "project"
)

// GraphNode is a typed, deduplicated node in the knowledge graph.
type GraphNode struct {
	ID        string         `json:"id"`
	Type      NodeType       `json:"type"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// EdgeRelation is a typed directed relation between two graph nodes.
type EdgeRelation string

const (
	RelRelatesTo   EdgeRelation = "relates_to"
	RelLearnedFrom EdgeRelation = "learned_from"
	RelAffects     EdgeRelation = "affects"
	RelSupersedes  EdgeRelation = "supersedes"
	RelContradicts EdgeRelation = "contradicts"
	RelContains    EdgeRelation = "contains"
	RelReferences  EdgeRelation = "references"
	RelImplements  EdgeRelation = "implements"
	RelDependsOn   EdgeRelation = "depends_on"
	RelProduces    EdgeRelation = "produces"
	RelConsumes    EdgeRelation = "consumes"
	RelDerivedFrom EdgeRelation = "derived_from"
	RelPartOf      EdgeRelation = "part_of"
	RelSummarizedBy EdgeRelation = "summarized_by"
	RelYields      EdgeRelation = "yields"
	RelInforms     EdgeRelation = "informs"
	RelGrounds     EdgeRelation = "grounds"
	RelHosts       EdgeRelation = "hosts"
)

// ValidRelations is the fixed edge-type vocabulary (spec.md §3).
var ValidRelations = map[EdgeRelation]bool{
	RelRelatesTo: true, RelLearnedFrom: true, RelAffects: true,
	RelSupersedes: true, RelContradicts: true, RelContains: true,
	RelReferences: true, RelImplements: true, RelDependsOn: true,
	RelProduces: true, RelConsumes: true, RelDerivedFrom: true,
	RelPartOf: true, RelSummarizedBy: true, RelYields: true,
	RelInforms: true, RelGrounds: true, RelHosts: true,
}

// EdgeStatus tracks soft-deletion of an edge.
type EdgeStatus string

const (
	EdgeActive     EdgeStatus = "active"
	EdgeDeprecated EdgeStatus = "deprecated"
)

// GraphEdge is a typed directed relation between two nodes.
type GraphEdge struct {
	From          string       `json:"from"`
	To            string       `json:"to"`
	Relation      EdgeRelation `json:"relation"`
	Weight        float64      `json:"weight"`
	Bidirectional bool         `json:"bidirectional"`
	Status        EdgeStatus   `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Graph is the single-document graph store payload.
type Graph struct {
	Nodes map[string]*GraphNode `json:"nodes"`
	Edges []*GraphEdge          `json:"edges"`
}

// ObservationStatus tracks an inbox entry's promote/discard lifecycle.
type ObservationStatus string

const (
	ObsRaw       ObservationStatus = "raw"
	ObsPromoted  ObservationStatus = "promoted"
	ObsDiscarded ObservationStatus = "discarded"
)

// Observation is a single inbox staging entry.
type Observation struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Source    string            `json:"source,omitempty"`
	Content   string            `json:"content"`
	Status    ObservationStatus `json:"status"`
	Tags      []string          `json:"tags,omitempty"`
}

// GitState captures a session's repository state at snapshot time.
type GitState struct {
	Branch      string   `json:"branch,omitempty"`
	Commits     []string `json:"commits,omitempty"`
	Uncommitted []string `json:"uncommitted,omitempty"`
	StashCount  int      `json:"stash_count"`
}

// SessionContext captures ambient context at snapshot time.
type SessionContext struct {
	ActiveFiles    []string          `json:"active_files,omitempty"`
	RecentCommands []string          `json:"recent_commands,omitempty"`
	Environment    map[string]string `json:"environment,omitempty"`
	Spec           string            `json:"spec,omitempty"`
}

// Handoff captures the end-of-session message to the next session.
type Handoff struct {
	Message   string    `json:"message,omitempty"`
	NextSteps []string  `json:"next_steps,omitempty"`
	Blockers  []string  `json:"blockers,omitempty"`
	Questions []string  `json:"questions,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// SessionRelated links a session back to the records it touched.
type SessionRelated struct {
	JournalEntries []string `json:"journal_entries,omitempty"`
	Patterns       []string `json:"patterns,omitempty"`
	Goals          []string `json:"goals,omitempty"`
}

// Session is a single session-handoff record (spec.md §3, §4.6).
type Session struct {
	ID              string          `json:"id"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         time.Time       `json:"ended_at,omitzero"`
	Summary         string          `json:"summary,omitempty"`
	GoalsAddressed  []string        `json:"goals_addressed,omitempty"`
	DecisionsMade   []string        `json:"decisions_made,omitempty"`
	PatternsLearned []string        `json:"patterns_learned,omitempty"`
	OpenThreads     []string        `json:"open_threads,omitempty"`
	Handoff         Handoff         `json:"handoff"`
	GitState        GitState        `json:"git_state"`
	Context         SessionContext  `json:"context"`
	Related         SessionRelated  `json:"related"`
	Compressed      bool            `json:"compressed,omitempty"`
	CompressedAt    time.Time       `json:"compressed_at,omitzero"`
	EssenceRatio    float64         `json:"essence_ratio,omitempty"`
}

// GoalStatus is a goal's lifecycle status.
type GoalStatus string

const (
	GoalDraft     GoalStatus = "draft"
	GoalActive    GoalStatus = "active"
	GoalBlocked   GoalStatus = "blocked"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

// GoalPriority ranks goal urgency.
type GoalPriority string

const (
	PriorityCritical GoalPriority = "critical"
	PriorityHigh     GoalPriority = "high"
	PriorityMedium   GoalPriority = "medium"
	PriorityLow      GoalPriority = "low"
)

// CriterionStatus is a success criterion's progress state.
type CriterionStatus string

const (
	CriterionPending    CriterionStatus = "pending"
	CriterionInProgress CriterionStatus = "in_progress"
	CriterionCompleted  CriterionStatus = "completed"
)

// SuccessCriterion is a single measurable acceptance condition on a goal.
type SuccessCriterion struct {
	ID          string          `yaml:"id" json:"id"`
	Description string          `yaml:"description" json:"description"`
	Priority    GoalPriority    `yaml:"priority" json:"priority"`
	Status      CriterionStatus `yaml:"status" json:"status"`
	Acceptance  []string        `yaml:"acceptance,omitempty" json:"acceptance,omitempty"`
}

// GoalSourceSnapshot captures the imported spec file's content digest.
type GoalSourceSnapshot struct {
	Hash  string `yaml:"hash,omitempty" json:"hash,omitempty"`
	Bytes int    `yaml:"bytes,omitempty" json:"bytes,omitempty"`
}

// GoalSource records provenance when a goal was imported from an external spec.
type GoalSource struct {
	Type       string              `yaml:"type,omitempty" json:"type,omitempty"`
	Path       string              `yaml:"path,omitempty" json:"path,omitempty"`
	Branch     string              `yaml:"branch,omitempty" json:"branch,omitempty"`
	ImportedAt time.Time           `yaml:"imported_at,omitzero" json:"imported_at,omitzero"`
	Snapshot   GoalSourceSnapshot  `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
}

// LifecyclePhase tracks a goal through specify/plan/tasks/implement/complete.
type LifecyclePhase string

const (
	PhaseSpecify   LifecyclePhase = "specify"
	PhasePlan      LifecyclePhase = "plan"
	PhaseTasks     LifecyclePhase = "tasks"
	PhaseImplement LifecyclePhase = "implement"
	PhaseComplete  LifecyclePhase = "complete"
)

// GoalLifecycle tracks a goal's assignment and progress through phases.
type GoalLifecycle struct {
	Phase          LifecyclePhase `yaml:"phase" json:"phase"`
	AssignedSession string        `yaml:"assigned_session,omitempty" json:"assigned_session,omitempty"`
	AssignedAt     time.Time      `yaml:"assigned_at,omitzero" json:"assigned_at,omitzero"`
	PlanDecisions  []string       `yaml:"plan_decisions,omitempty" json:"plan_decisions,omitempty"`
}

// OutcomeStatus is the terminal state recorded when a goal finishes.
type OutcomeStatus string

const (
	GoalOutcomeCompleted OutcomeStatus = "completed"
	GoalOutcomeFailed    OutcomeStatus = "failed"
	GoalOutcomeAbandoned OutcomeStatus = "abandoned"
)

// GoalOutcome records how and when a goal concluded.
type GoalOutcome struct {
	Status        OutcomeStatus `yaml:"status,omitempty" json:"status,omitempty"`
	CompletedAt   time.Time     `yaml:"completed_at,omitzero" json:"completed_at,omitzero"`
	SessionID     string        `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	JournalEntry  string        `yaml:"journal_entry,omitempty" json:"journal_entry,omitempty"`
}

// Goal is a goal/spec record (spec.md §3, §4.7).
type Goal struct {
	ID               string              `yaml:"id" json:"id"`
	Name             string              `yaml:"name" json:"name"`
	Description      string              `yaml:"description" json:"description"`
	Status           GoalStatus          `yaml:"status" json:"status"`
	Priority         GoalPriority        `yaml:"priority" json:"priority"`
	Deadline         time.Time           `yaml:"deadline,omitzero" json:"deadline,omitzero"`
	SuccessCriteria  []SuccessCriterion  `yaml:"success_criteria,omitempty" json:"success_criteria,omitempty"`
	DependsOn        []string            `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Projects         []string            `yaml:"projects,omitempty" json:"projects,omitempty"`
	Tags             []string            `yaml:"tags,omitempty" json:"tags,omitempty"`
	Source           *GoalSource         `yaml:"source,omitempty" json:"source,omitempty"`
	Lifecycle        GoalLifecycle       `yaml:"lifecycle" json:"lifecycle"`
	Outcome          *GoalOutcome        `yaml:"outcome,omitempty" json:"outcome,omitempty"`
}
