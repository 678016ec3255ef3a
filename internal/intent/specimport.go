package intent

import (
	"crypto/md5" //nolint:gosec // used for a content fingerprint, not security
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

var (
	headingRe          = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	frontmatterBranch  = regexp.MustCompile(`(?i)^branch:\s*(.+)$`)
	bulletRe           = regexp.MustCompile(`^[-*]\s+(.*)$`)
	userStoryHeadingRe = regexp.MustCompile(`(?i)user story`)
	acceptanceHeadingRe = regexp.MustCompile(`(?i)acceptance criteria`)
	decisionLineRe     = regexp.MustCompile(`(?i)^[-*]?\s*decision:\s*(.*)$`)
)

// parsedSpec is the result of scanning an external spec file.
type parsedSpec struct {
	Title    string
	Branch   string
	Criteria []loretypes.SuccessCriterion
}

// parseSpecFile extracts a title, a branch (frontmatter, else the
// containing directory name), and one success criterion per "User Story"
// heading, with any "Acceptance Criteria" bullets beneath it attached.
func parseSpecFile(path string) (*parsedSpec, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, loreerr.Wrap(loreerr.KindUsage, "intent.parseSpecFile", "read spec file", err)
	}

	ps := &parsedSpec{}
	inFrontmatter := false
	var currentHeading string
	var current *loretypes.SuccessCriterion
	inAcceptance := false

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if i == 0 && strings.TrimSpace(line) == "---" {
			inFrontmatter = true
			continue
		}
		if inFrontmatter {
			if strings.TrimSpace(line) == "---" {
				inFrontmatter = false
				continue
			}
			if m := frontmatterBranch.FindStringSubmatch(line); m != nil {
				ps.Branch = strings.TrimSpace(m[1])
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			heading := strings.TrimSpace(m[2])
			currentHeading = heading
			if ps.Title == "" && len(m[1]) == 1 {
				ps.Title = heading
			}
			inAcceptance = acceptanceHeadingRe.MatchString(heading)
			if userStoryHeadingRe.MatchString(heading) {
				ps.Criteria = append(ps.Criteria, loretypes.SuccessCriterion{
					ID:          loreid.NewGoalID(loreid.Now())[:12] + "-criterion",
					Description: heading,
					Priority:    loretypes.PriorityMedium,
					Status:      loretypes.CriterionPending,
				})
				current = &ps.Criteria[len(ps.Criteria)-1]
			} else if !strings.Contains(strings.ToLower(heading), "acceptance") {
				current = nil
			}
			continue
		}

		if inAcceptance && current != nil {
			if m := bulletRe.FindStringSubmatch(line); m != nil {
				current.Acceptance = append(current.Acceptance, strings.TrimSpace(m[1]))
				continue
			}
		}
		_ = currentHeading
	}

	if ps.Title == "" {
		ps.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if ps.Branch == "" {
		ps.Branch = filepath.Base(filepath.Dir(path))
	}
	return ps, data, nil
}

// companionPlanPath guesses the sibling plan file's path: "<dir>/plan.md"
// if present, else "<spec-basename-without-ext>-plan.md" in the same
// directory.
func companionPlanPath(specPath string) string {
	dir := filepath.Dir(specPath)
	sibling := filepath.Join(dir, "plan.md")
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	base := strings.TrimSuffix(filepath.Base(specPath), filepath.Ext(specPath))
	alt := filepath.Join(dir, base+"-plan.md")
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return ""
}

// planDecisions scans a plan file for "Decision: ..." lines.
func planDecisions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "intent.planDecisions", "read plan file", err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if m := decisionLineRe.FindStringSubmatch(strings.TrimRight(line, "\r")); m != nil {
			text := strings.TrimSpace(m[1])
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out, nil
}

// ImportSpec creates a new goal from an external specification file,
// recording provenance and, when a companion plan file exists beside it,
// recording each parsed plan decision to the journal tagged
// "spec:<goal_id>" and "plan-decision", linked back via
// lifecycle.plan_decisions (spec.md §4.7).
func (s *Store) ImportSpec(path string, recorder DecisionRecorder) (string, error) {
	ps, data, err := parseSpecFile(path)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(data) //nolint:gosec
	g := &loretypes.Goal{
		ID:              loreid.NewGoalID(loreid.Now()),
		Name:            ps.Title,
		Status:          loretypes.GoalDraft,
		Priority:        loretypes.PriorityMedium,
		SuccessCriteria: ps.Criteria,
		Source: &loretypes.GoalSource{
			Type:       "spec-import",
			Path:       path,
			Branch:     ps.Branch,
			ImportedAt: loreid.Now(),
			Snapshot:   loretypes.GoalSourceSnapshot{Hash: hex.EncodeToString(sum[:]), Bytes: len(data)},
		},
		Lifecycle: loretypes.GoalLifecycle{Phase: loretypes.PhaseSpecify},
	}

	if planPath := companionPlanPath(path); planPath != "" && recorder != nil {
		decisions, err := planDecisions(planPath)
		if err != nil {
			return "", err
		}
		for _, text := range decisions {
			id, err := recorder.Record(text, "imported from plan "+planPath, []string{"spec:" + g.ID, "plan-decision"})
			if err != nil {
				return "", loreerr.Wrap(loreerr.KindFatal, "intent.importSpec", "record plan decision", err)
			}
			g.Lifecycle.PlanDecisions = append(g.Lifecycle.PlanDecisions, id)
		}
	}

	if err := s.save(g); err != nil {
		return "", err
	}
	return g.ID, nil
}
