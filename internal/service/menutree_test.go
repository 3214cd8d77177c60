// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"github.com/fauzinoor/kalam/internal/model"
)

func ptr(id int64) *int64 { return &id }

func item(id int64, parent *int64, order int, title string) model.MenuItem {
	return model.MenuItem{ID: id, MenuID: 1, ParentID: parent, DisplayOrder: order, Title: title, IsActive: true}
}

func nodeIDs(nodes []*model.MenuNode) []int64 {
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildMenuTree(t *testing.T) {
	items := []model.MenuItem{
		item(1, nil, 1, "Home"),
		item(2, ptr(1), 1, "About"),
		item(3, ptr(1), 2, "Blog"),
		item(4, ptr(99), 1, "Orphan"),
	}

	tree := BuildMenuTree(items)

	if got := nodeIDs(tree.Roots); !equalIDs(got, []int64{1}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if got := nodeIDs(tree.Roots[0].Children); !equalIDs(got, []int64{2, 3}) {
		t.Errorf("children of 1 = %v, want [2 3]", got)
	}
	if !equalIDs(tree.Dropped, []int64{4}) {
		t.Errorf("dropped = %v, want [4]", tree.Dropped)
	}
	for _, c := range tree.Roots[0].Children {
		if len(c.Children) != 0 {
			t.Errorf("item %d has %d children, want 0", c.ID, len(c.Children))
		}
	}
}

func TestBuildMenuTree_PreservesInputOrder(t *testing.T) {
	// Input order is authoritative even when it disagrees with ids.
	items := []model.MenuItem{
		item(30, nil, 1, "C"),
		item(10, nil, 2, "A"),
		item(20, nil, 3, "B"),
		item(5, ptr(10), 1, "A.2"),
		item(4, ptr(10), 2, "A.1"),
		item(6, ptr(10), 3, "A.3"),
	}

	tree := BuildMenuTree(items)

	if got := nodeIDs(tree.Roots); !equalIDs(got, []int64{30, 10, 20}) {
		t.Errorf("roots = %v, want [30 10 20]", got)
	}
	if got := nodeIDs(tree.Roots[1].Children); !equalIDs(got, []int64{5, 4, 6}) {
		t.Errorf("children = %v, want [5 4 6]", got)
	}
}

func TestBuildMenuTree_ChildBeforeParent(t *testing.T) {
	items := []model.MenuItem{
		item(2, ptr(1), 1, "Child"),
		item(1, nil, 1, "Parent"),
	}

	tree := BuildMenuTree(items)

	if len(tree.Roots) != 1 || len(tree.Roots[0].Children) != 1 {
		t.Fatalf("unexpected tree shape: %+v", tree.Roots)
	}
	if tree.Roots[0].Children[0].ID != 2 {
		t.Errorf("child id = %d, want 2", tree.Roots[0].Children[0].ID)
	}
	if len(tree.Dropped) != 0 {
		t.Errorf("dropped = %v, want none", tree.Dropped)
	}
}

func TestBuildMenuTree_Cycle(t *testing.T) {
	items := []model.MenuItem{
		item(1, nil, 1, "Home"),
		item(2, ptr(3), 1, "A"),
		item(3, ptr(2), 1, "B"),
		item(4, ptr(2), 2, "Below cycle"),
	}

	tree := BuildMenuTree(items)

	if got := nodeIDs(tree.Roots); !equalIDs(got, []int64{1}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if len(tree.Roots[0].Children) != 0 {
		t.Errorf("home children = %v, want none", nodeIDs(tree.Roots[0].Children))
	}
	if !equalIDs(tree.Dropped, []int64{2, 3, 4}) {
		t.Errorf("dropped = %v, want [2 3 4]", tree.Dropped)
	}
}

func TestBuildMenuTree_SelfParent(t *testing.T) {
	tree := BuildMenuTree([]model.MenuItem{item(7, ptr(7), 1, "Loop")})

	if len(tree.Roots) != 0 {
		t.Errorf("roots = %v, want none", nodeIDs(tree.Roots))
	}
	if !equalIDs(tree.Dropped, []int64{7}) {
		t.Errorf("dropped = %v, want [7]", tree.Dropped)
	}
}

func TestBuildMenuTree_DuplicateIDs(t *testing.T) {
	items := []model.MenuItem{
		item(1, nil, 1, "First"),
		item(1, nil, 2, "Second"),
	}

	tree := BuildMenuTree(items)

	if len(tree.Roots) != 1 || tree.Roots[0].Title != "First" {
		t.Fatalf("roots = %+v, want only the first occurrence", tree.Roots)
	}
	if !equalIDs(tree.Dropped, []int64{1}) {
		t.Errorf("dropped = %v, want [1]", tree.Dropped)
	}
}

func TestBuildMenuTree_Empty(t *testing.T) {
	tree := BuildMenuTree(nil)
	if tree.Roots == nil || len(tree.Roots) != 0 {
		t.Errorf("roots = %v, want empty non-nil slice", tree.Roots)
	}
	if len(tree.Dropped) != 0 {
		t.Errorf("dropped = %v, want none", tree.Dropped)
	}
}

func TestBuildMenuTree_EveryReachableItemOnce(t *testing.T) {
	items := []model.MenuItem{
		item(1, nil, 1, "a"),
		item(2, ptr(1), 1, "b"),
		item(3, ptr(2), 1, "c"),
		item(4, ptr(3), 1, "d"),
		item(5, nil, 2, "e"),
		item(6, ptr(5), 1, "f"),
	}

	tree := BuildMenuTree(items)
	counts := map[int64]int{}
	var walk func([]*model.MenuNode)
	walk = func(nodes []*model.MenuNode) {
		for _, n := range nodes {
			counts[n.ID]++
			walk(n.Children)
		}
	}
	walk(tree.Roots)

	for _, it := range items {
		if counts[it.ID] != 1 {
			t.Errorf("item %d appears %d times, want 1", it.ID, counts[it.ID])
		}
	}
}

func TestCollectDescendants(t *testing.T) {
	items := []model.MenuItem{
		item(1, nil, 1, "root"),
		item(2, ptr(1), 1, "child"),
		item(3, ptr(2), 1, "grandchild"),
		item(4, ptr(1), 2, "child 2"),
		item(5, nil, 2, "other root"),
	}

	got := CollectDescendants(items, 1)
	want := []int64{3, 4, 2, 1}
	if !equalIDs(got, want) {
		t.Errorf("CollectDescendants(1) = %v, want %v", got, want)
	}

	if got := CollectDescendants(items, 5); !equalIDs(got, []int64{5}) {
		t.Errorf("CollectDescendants(5) = %v, want [5]", got)
	}
	if got := CollectDescendants(items, 42); got != nil {
		t.Errorf("CollectDescendants(42) = %v, want nil", got)
	}
}

func TestCollectDescendants_Cycle(t *testing.T) {
	items := []model.MenuItem{
		item(1, ptr(2), 1, "a"),
		item(2, ptr(1), 1, "b"),
	}

	got := CollectDescendants(items, 1)
	if !equalIDs(got, []int64{2, 1}) {
		t.Errorf("CollectDescendants = %v, want [2 1]", got)
	}
}

func TestReorderPositions(t *testing.T) {
	got := ReorderPositions([]int64{9, 3, 7})
	want := []model.Position{{ID: 9, DisplayOrder: 1}, {ID: 3, DisplayOrder: 2}, {ID: 7, DisplayOrder: 3}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := ReorderPositions(nil); len(got) != 0 {
		t.Errorf("ReorderPositions(nil) = %v, want empty", got)
	}
}
