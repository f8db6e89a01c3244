// backend/internal/application/query/mall/errors.go
package mall

import "errors"

// ErrNotFound: the page subject (e.g. category slug) does not exist.
// handler 側で usecase.ErrNotFound と同様に 404 にする。
var ErrNotFound = errors.New("mall query: not found")
