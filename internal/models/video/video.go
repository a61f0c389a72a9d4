package video

type Video struct {
	ID   int64  `json:"id" db:"id"`
	Data []byte `json:"-" db:"video_data"`
}

// метаданные для списка, без передачи самого блоба
type VideoInfo struct {
	ID   int64 `json:"id" db:"id"`
	Size int   `json:"size" db:"size"`
}
