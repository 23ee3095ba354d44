package logic

import (
	"context"

	"github.com/zgsm-ai/tool-reply/internal/bootstrap"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

// StylesLogic serves the selectable response styles per category
type StylesLogic struct {
	ctx    context.Context
	svcCtx *bootstrap.ServiceContext
}

// NewStylesLogic creates styles logic for one request
func NewStylesLogic(ctx context.Context, svcCtx *bootstrap.ServiceContext) *StylesLogic {
	return &StylesLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Styles lists the styles available for a category. Unknown categories
// degrade to the conversational default rather than erroring.
func (l *StylesLogic) Styles(category types.ToolCategory) *types.StylesResponse {
	return &types.StylesResponse{
		Category: category,
		Styles:   l.svcCtx.Pipeline.AvailableStyles(category),
	}
}
