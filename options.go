package marcxml

import "go.uber.org/zap"

// defaultMaxRecordBytes caps a single streamed record fragment.
const defaultMaxRecordBytes = 64 << 20 // 64 MiB

type readerConfig struct {
	log            *zap.Logger
	maxRecordBytes int64
}

func defaultReaderConfig() readerConfig {
	return readerConfig{
		log:            zap.NewNop(),
		maxRecordBytes: defaultMaxRecordBytes,
	}
}

// ReaderOption configures a CollectionReader.
type ReaderOption func(*readerConfig)

// WithLogger attaches a logger for debug-level progress events (opens,
// rewinds, yielded records). The default is a no-op logger.
func WithLogger(log *zap.Logger) ReaderOption {
	return func(c *readerConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxRecordBytes caps the size of a single record fragment returned by
// NextRecord; beyond the cap NextRecord fails with ErrRecordTooLarge. Values
// <= 0 keep the default of 64 MiB.
func WithMaxRecordBytes(n int64) ReaderOption {
	return func(c *readerConfig) {
		if n > 0 {
			c.maxRecordBytes = n
		}
	}
}
