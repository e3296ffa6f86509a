package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseByteRange(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		size       int64
		wantOffset int64
		wantLength int64
		wantOK     bool
	}{
		{"full range", "bytes=0-99", 100, 0, 100, true},
		{"middle", "bytes=10-19", 100, 10, 10, true},
		{"open ended", "bytes=50-", 100, 50, 50, true},
		{"suffix", "bytes=-25", 100, 75, 25, true},
		{"suffix larger than file", "bytes=-200", 100, 0, 100, true},
		{"end clamped to size", "bytes=90-150", 100, 90, 10, true},
		{"start past end of file", "bytes=100-", 100, 0, 0, false},
		{"inverted", "bytes=20-10", 100, 0, 0, false},
		{"multipart unsupported", "bytes=0-1,5-6", 100, 0, 0, false},
		{"missing prefix", "0-10", 100, 0, 0, false},
		{"not numbers", "bytes=a-b", 100, 0, 0, false},
		{"empty file", "bytes=0-0", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, length, ok := parseByteRange(tt.header, tt.size)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantOffset, offset)
				assert.Equal(t, tt.wantLength, length)
			}
		})
	}
}
