package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

// TargetKind tags the table a like or comment points at. Targets have no
// foreign key behind them, so existence is checked here before any mutation.
type TargetKind string

const (
	TargetSong     TargetKind = "song"
	TargetNote     TargetKind = "note"
	TargetPlaylist TargetKind = "playlist"
	TargetComment  TargetKind = "comment"
)

var targetModels = map[TargetKind]func() interface{}{
	TargetSong:     func() interface{} { return &model.Song{} },
	TargetNote:     func() interface{} { return &model.Note{} },
	TargetPlaylist: func() interface{} { return &model.Playlist{} },
	TargetComment:  func() interface{} { return &model.Comment{} },
}

// Kinds each operation accepts.
var (
	likeKinds    = map[TargetKind]bool{TargetNote: true, TargetComment: true}
	commentKinds = map[TargetKind]bool{TargetSong: true, TargetNote: true, TargetPlaylist: true}
)

type targetChecker struct {
	db *gorm.DB
}

// exists resolves kind to its table and checks the row is there.
func (t *targetChecker) exists(ctx context.Context, kind TargetKind, id int64) error {
	mk, ok := targetModels[kind]
	if !ok {
		return errs.Errorf(errs.EINVALID, "invalid target type %q", kind)
	}
	var cnt int64
	if err := t.db.WithContext(ctx).Model(mk()).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return errs.Errorf(errs.ENOTFOUND, "%s not found", kind)
	}
	return nil
}
