// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/fauzinoor/kalam/internal/model"

// MenuTree is the nested form of a menu's flat item list.
type MenuTree struct {
	Roots []*model.MenuNode `json:"items"`
	// Dropped holds the ids of items not reachable from any root: orphans,
	// cycle members, their descendants and duplicate ids.
	Dropped []int64 `json:"dropped,omitempty"`
}

// BuildMenuTree converts a flat list of menu items into a tree. Items must
// already be sorted by display order; roots and every child list keep the
// input order. Items whose parent is absent are left out. Parent cycles are
// not detected, but since nodes are attached in a single pass over a lookup
// map their members are never reachable from a root and simply drop out.
func BuildMenuTree(items []model.MenuItem) MenuTree {
	nodes := make(map[int64]*model.MenuNode, len(items))
	order := make([]*model.MenuNode, 0, len(items))
	var dropped []int64

	for _, item := range items {
		if _, dup := nodes[item.ID]; dup {
			dropped = append(dropped, item.ID)
			continue
		}
		n := &model.MenuNode{MenuItem: item, Children: []*model.MenuNode{}}
		nodes[item.ID] = n
		order = append(order, n)
	}

	roots := []*model.MenuNode{}
	for _, n := range order {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*n.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}

	reachable := reachableIDs(roots)
	for _, n := range order {
		if !reachable[n.ID] {
			dropped = append(dropped, n.ID)
		}
	}

	return MenuTree{Roots: roots, Dropped: dropped}
}

// reachableIDs walks the tree iteratively from roots and returns every
// visited id. The visited set guards the walk even though a well-formed
// forest cannot revisit a node.
func reachableIDs(roots []*model.MenuNode) map[int64]bool {
	seen := make(map[int64]bool)
	stack := append([]*model.MenuNode(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		stack = append(stack, n.Children...)
	}
	return seen
}

// CollectDescendants returns rootID and every item below it, deepest items
// first and rootID last, so that deleting the ids in order never leaves a
// dangling parent reference. Returns nil if rootID is not in items.
func CollectDescendants(items []model.MenuItem, rootID int64) []int64 {
	children := make(map[int64][]int64, len(items))
	found := false
	for _, item := range items {
		if item.ID == rootID {
			found = true
		}
		if item.ParentID != nil {
			children[*item.ParentID] = append(children[*item.ParentID], item.ID)
		}
	}
	if !found {
		return nil
	}

	// Breadth-first collection; reversing yields deepest first.
	seen := map[int64]bool{rootID: true}
	ids := []int64{rootID}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			ids = append(ids, child)
		}
	}

	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// ReorderPositions assigns 1-based display orders following the given id
// sequence. Ids not in the sequence are not touched and may end up sharing a
// display order with a reordered sibling; listings break such ties by id.
func ReorderPositions(orderedIDs []int64) []model.Position {
	positions := make([]model.Position, len(orderedIDs))
	for i, id := range orderedIDs {
		positions[i] = model.Position{ID: id, DisplayOrder: i + 1}
	}
	return positions
}
