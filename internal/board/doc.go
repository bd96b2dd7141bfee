// Package board owns the state of a single kanban board: the task list,
// the column list, and the rules that keep them consistent.
//
// A [Manager] is the only writer. Views read snapshots through its query
// methods or subscribe to changes, and route every edit back through a
// mutation method. Each applied mutation is written to a [store.Store]
// under two keys (tasks and columns, JSON encoded) and then published on
// an [event.Bus]; subscribers always get the latest snapshot when they
// subscribe.
//
// # Ordering
//
// Tasks are ranked within their column by Order; columns are ranked on the
// board by Order. Column orders are renumbered to 0..n-1 after every
// column mutation. Task orders are renumbered to 0..k-1 when a column is
// reordered. MoveTask, DeleteTask and RemoveColumn leave task orders as
// they were, so a column can briefly hold ties or gaps; the next reorder
// of that column closes them.
//
// # Columns
//
// The todo, inprogress and done columns always exist and cannot be
// removed. Other columns get ids col1, col2, ... which, like task ids, are
// never reused while a Manager is running.
//
// # Drag and drop
//
// [DragPayload] models what a view attaches to a drag gesture, tagged by
// [Channel] so drops of tasks and of columns are told apart without
// guessing. [Manager.DropOnSlot] and [Manager.DropOnColumn] turn a drop
// into the matching mutation.
package board
