package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autofill-go/internal/config"
	"autofill-go/internal/processor"
	"autofill-go/internal/storage"
	"autofill-go/internal/types"
)

func TestFillFormRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     FillFormRequest
		wantErr bool
	}{
		{
			name: "合法请求",
			req: FillFormRequest{
				SubmissionUUID: "0189c7e2-0000-7000-8000-000000000000",
				Fields:         []types.FormField{{Label: "Name", Visible: true}},
			},
			wantErr: false,
		},
		{
			name: "缺少submission_uuid",
			req: FillFormRequest{
				Fields: []types.FormField{{Label: "Name", Visible: true}},
			},
			wantErr: true,
		},
		{
			name: "缺少fields",
			req: FillFormRequest{
				SubmissionUUID: "0189c7e2-0000-7000-8000-000000000000",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandleResumeUpload_UnsupportedExtension(t *testing.T) {
	h := NewResumeHandler(&config.Config{}, &storage.Storage{}, nil)

	// 扩展名校验在任何存储操作之前，不支持的格式直接拒绝
	for _, filename := range []string{"resume.txt", "resume.png", "resume"} {
		_, err := h.HandleResumeUpload(context.Background(), strings.NewReader("dummy"), 5, filename)
		require.Error(t, err, "文件 %s 应被拒绝", filename)
		assert.True(t, errors.Is(err, processor.ErrUnsupportedFormat))
	}
}
