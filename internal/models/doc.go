// Package models defines the core domain models for roomdraw.
//
// # Models
//
//   - Draw: A housing draw that students and groups compete in
//   - Student: A person who can lead or join a group (read through the user directory)
//   - Group: A set of students pursuing one suite together
//   - Membership: The join record between a student and a group
//   - Suite: A unit of rooms that a locked group can claim
//
// # Design Principles
//
// 1. **Plain data**: Models carry state and read-only derived views. Transitions that
// change state live in the housing package so they can be validated before commit.
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships.
// 3. **Leader is a member**: Every group owns a permanent accepted membership for its
// leader, created with the group, so member views never special-case the leader.
// 4. **Single status field**: A membership is locked when its status is locked; there is
// no separate flag that could disagree with the status.
package models
