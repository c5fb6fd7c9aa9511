package traversal

import "github.com/helixdb/helixdb/pkg/herrors"

var errNoSource = herrors.New(herrors.KindInvalidInput, "traversal", errString("pipeline has no source adapter"))

type errString string

func (e errString) Error() string { return string(e) }
