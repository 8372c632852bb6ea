package log

import (
	"github.com/utpal03/portalkit/log/writer"
)

// FileConfig configures file logging.
type FileConfig struct {
	Filepath   string            `json:"filepath" default:"log"`
	Filename   string            `json:"filename" default:"portal"`
	FileExt    string            `json:"file_ext" default:"log"`
	RotateMode writer.RotateMode `json:"rotate_mode"`
	TimeRotate TimeRotateConfig  `json:"time_rotate"`
	SizeRotate SizeRotateConfig  `json:"size_rotate"`
}

// TimeRotateConfig configures time-based rotation.
type TimeRotateConfig struct {
	MaxAge       int `json:"max_age" default:"24"`      // hours to keep old files
	RotationTime int `json:"rotation_time" default:"1"` // hours between rotations
}

// SizeRotateConfig configures size-based rotation.
type SizeRotateConfig struct {
	MaxSize    int  `json:"max_size" default:"100"` // megabytes
	MaxBackups int  `json:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" default:"30"` // days
	Compress   bool `json:"compress" default:"false"`
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Mode:     c.RotateMode,
		TimeRotateConfig: writer.TimeRotateConfig{
			MaxAge:       c.TimeRotate.MaxAge,
			RotationTime: c.TimeRotate.RotationTime,
		},
		SizeRotateConfig: writer.SizeRotateConfig{
			MaxSize:    c.SizeRotate.MaxSize,
			MaxBackups: c.SizeRotate.MaxBackups,
			MaxAge:     c.SizeRotate.MaxAge,
			Compress:   c.SizeRotate.Compress,
		},
	}
}
