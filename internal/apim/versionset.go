package apim

// VersionSetContent is the create-or-update form of an API version set.
type VersionSetContent struct {
	DisplayName       *string
	Description       *string
	VersioningScheme  *VersioningScheme
	VersionQueryName  *string
	VersionHeaderName *string
}

// VersionSetData is a version set as the provider reports it.
type VersionSetData struct {
	ID   ResourceID
	Name VersionSetName
	VersionSetContent
}

// ToContent returns the create-or-update content of d.
func (d *VersionSetData) ToContent() *VersionSetContent {
	c := d.VersionSetContent
	return &c
}
