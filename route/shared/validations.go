package shared

import (
	"regexp"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	dicomUidPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
)

// DICOMのUID。
var StudyInstanceUidRules = []v.Rule{
	v.Required,
	v.Length(1, 64),
	v.Match(dicomUidPattern).Error("must be a DICOM UID"),
}

// 計測種別ID、タイムポイントIDなどの識別子。
var IdentifierRules = []v.Rule{
	v.Required,
	v.Length(1, 128),
}
