package storage

import (
	"testing"

	"github.com/ProJug/Grunt/internal/pkg/errs"
)

func TestValidateImageSize(t *testing.T) {
	if custom := ValidateImageSize(MaxImageSizeMB << 20); custom != nil {
		t.Errorf("size at the limit must pass, got %v", custom)
	}
	custom := ValidateImageSize((MaxImageSizeMB << 20) + 1)
	if custom == nil || custom.Code != errs.ErrFileSizeTooLarge {
		t.Errorf("oversized image: want ErrFileSizeTooLarge, got %v", custom)
	}
	if custom := ValidateImageSize(0); custom == nil || custom.Code != errs.ErrInvalidParams {
		t.Errorf("empty file: want ErrInvalidParams, got %v", custom)
	}
}

func TestValidateImageType(t *testing.T) {
	cases := []struct {
		name     string
		fileName string
		mime     string
		wantCode int
	}{
		{"jpeg ok", "photo.jpg", "image/jpeg", 0},
		{"png ok", "shot.png", "image/png", 0},
		{"webp ok", "pic.webp", "image/webp", 0},
		{"gif ok", "anim.gif", "image/gif", 0},
		{"uppercase extension", "PHOTO.JPG", "image/jpeg", 0},
		{"disallowed mime", "script.svg", "image/svg+xml", errs.ErrFileTypeInvalid},
		{"extension mime mismatch", "photo.png", "image/jpeg", errs.ErrFileTypeInvalid},
		{"no extension", "photo", "image/jpeg", errs.ErrFileTypeInvalid},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			custom := ValidateImageType(c.fileName, c.mime)
			if c.wantCode == 0 {
				if custom != nil {
					t.Errorf("want pass, got %v", custom)
				}
				return
			}
			if custom == nil || custom.Code != c.wantCode {
				t.Errorf("want code %d, got %v", c.wantCode, custom)
			}
		})
	}
}
