// Package pipeline groups sessions into workflows and computes the
// derived metrics the live monitor and batch reports share.
package pipeline

import (
	"sort"

	"ocmon/internal/model"
)

// GroupSessions reconstructs workflows from a flat session list produced
// by the file-based store. Every input session lands in exactly one
// workflow: sessions without a parent become workflow roots, sessions
// with a parent are attached to their ultimate root (parent chains are
// followed to the top, not just one hop), and a child whose chain cannot
// be resolved is promoted to a root of its own so it still gets displayed.
//
// Output is ordered by each workflow's most recent interaction timestamp
// descending; equal timestamps order by root session id ascending so
// repeated calls are stable.
func GroupSessions(sessions []model.SessionData) []model.Workflow {
	byID := make(map[string]*model.SessionData, len(sessions))
	for i := range sessions {
		byID[sessions[i].SessionID] = &sessions[i]
	}

	var rootIDs []string
	children := make(map[string][]*model.SessionData)

	for i := range sessions {
		s := &sessions[i]
		if s.ParentID == "" {
			rootIDs = append(rootIDs, s.SessionID)
			continue
		}
		rootID, ok := resolveRootID(byID, s.SessionID)
		if !ok || rootID == s.SessionID {
			// Orphaned sub-agent: promote to a workflow of its own.
			rootIDs = append(rootIDs, s.SessionID)
			continue
		}
		children[rootID] = append(children[rootID], s)
	}

	workflows := make([]model.Workflow, 0, len(rootIDs))
	for _, rootID := range rootIDs {
		wf := model.Workflow{MainSession: *byID[rootID]}
		subs := children[rootID]
		sort.Slice(subs, func(i, j int) bool {
			return subs[i].SessionID < subs[j].SessionID
		})
		for _, sub := range subs {
			wf.SubAgents = append(wf.SubAgents, *sub)
		}
		workflows = append(workflows, wf)
	}

	sort.SliceStable(workflows, func(i, j int) bool {
		ti, tj := workflows[i].LastActivity(), workflows[j].LastActivity()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return workflows[i].WorkflowID() < workflows[j].WorkflowID()
	})

	return workflows
}

// resolveRootID follows parent links until it reaches a session with no
// parent. Returns false when the chain dangles (a cited parent is not in
// the input) or loops back on itself.
func resolveRootID(byID map[string]*model.SessionData, id string) (string, bool) {
	seen := map[string]struct{}{id: {}}
	cur := byID[id]
	for {
		if cur.ParentID == "" {
			return cur.SessionID, true
		}
		parent, ok := byID[cur.ParentID]
		if !ok {
			return "", false
		}
		if _, looped := seen[parent.SessionID]; looped {
			return "", false
		}
		seen[parent.SessionID] = struct{}{}
		cur = parent
	}
}
