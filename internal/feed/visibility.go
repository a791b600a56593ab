package feed

import "github.com/leanderkyvelos-create/MoodCam/internal/profile"

// Visible decides whether a viewer may see a post in a given scope.
// The precedence order matters and short-circuits:
//
//  1. own posts are always visible
//  2. friends' posts are always visible, in any scope
//  3. the Friends scope shows nothing else
//  4. an explicit public flag on the post wins
//  5. a non-private author account wins when the post has no flag
//  6. otherwise hidden
//
// Region never participates here: it is a pre-filter on the query, not
// a visibility dimension.
func Visible(viewer profile.Profile, post Post, scope Scope) bool {
	if post.UserID == viewer.ID {
		return true
	}
	if viewer.IsFriend(post.UserID) {
		return true
	}
	if scope == ScopeFriends {
		return false
	}
	if post.IsPublic {
		return true
	}
	if !post.UserSnapshot.Settings.PrivateAccount {
		return true
	}
	return false
}
