package common

const (
	DefaultSkip = 0
	DefaultTake = 10
	MaxTake     = 100
)

type PageReq struct {
	Skip *int `form:"skip" json:"skip" binding:"omitempty,gte=0"`
	Take *int `form:"take" json:"take" binding:"omitempty,gte=1,lte=100"`
}

func (p *PageReq) Offset() int {
	if p.Skip == nil {
		return DefaultSkip
	}
	return *p.Skip
}

func (p *PageReq) Limit() int {
	if p.Take == nil {
		return DefaultTake
	}
	return min(*p.Take, MaxTake)
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
