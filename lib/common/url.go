package common

import (
	"strings"

	"boscoin.io/obscura/lib/errors"
)

var (
	TrueQueryStringValue  = []string{"true", "yes", "1"}
	FalseQueryStringValue = []string{"false", "no", "0"}
)

func ParseBoolQueryString(v string) (yesno bool, err error) {
	if _, yesno = InStringArray(TrueQueryStringValue, strings.ToLower(v)); yesno {
		return
	}
	if _, ok := InStringArray(FalseQueryStringValue, strings.ToLower(v)); ok {
		yesno = false
		return
	}

	err = errors.BadRequestParameter.Clone().SetData("value", v)
	return
}
