package artifact

import "github.com/starford/apiops/internal/apim"

// Directory is any directory of the artifact tree.
type Directory interface {
	Path() Path
}

// File is any file of the artifact tree.
type File interface {
	Path() Path
}

// Fixed segment names.
const (
	APIsDirectoryName             = "apis"
	APIInformationFileName        = "apiInformation.json"
	VersionSetsDirectoryName      = "version sets"
	VersionSetInformationFileName = "versionSetInformation.json"
)

// ServiceDirectory is the root of the tree for one API management service.
type ServiceDirectory struct {
	path Path
}

// NewServiceDirectory roots a tree at root.
func NewServiceDirectory(root string) ServiceDirectory {
	return ServiceDirectory{path: NewPath(root)}
}

func (d ServiceDirectory) Path() Path { return d.path }

// APIsDirectory holds one directory per API.
type APIsDirectory struct {
	path    Path
	service ServiceDirectory
}

func NewAPIsDirectory(service ServiceDirectory) APIsDirectory {
	return APIsDirectory{path: service.Path().Append(APIsDirectoryName), service: service}
}

func (d APIsDirectory) Path() Path                         { return d.path }
func (d APIsDirectory) ServiceDirectory() ServiceDirectory { return d.service }

// APIDirectory holds the artifacts of one API.
type APIDirectory struct {
	path Path
	name apim.APIName
	apis APIsDirectory
}

func NewAPIDirectory(name apim.APIName, apis APIsDirectory) APIDirectory {
	return APIDirectory{path: apis.Path().Append(name.String()), name: name, apis: apis}
}

func (d APIDirectory) Path() Path                   { return d.path }
func (d APIDirectory) Name() apim.APIName           { return d.name }
func (d APIDirectory) APIsDirectory() APIsDirectory { return d.apis }

// APIInformationFile holds the encoded content of one API.
type APIInformationFile struct {
	path Path
	dir  APIDirectory
}

func NewAPIInformationFile(dir APIDirectory) APIInformationFile {
	return APIInformationFile{path: dir.Path().Append(APIInformationFileName), dir: dir}
}

func (f APIInformationFile) Path() Path                 { return f.path }
func (f APIInformationFile) APIDirectory() APIDirectory { return f.dir }
func (f APIInformationFile) APIName() apim.APIName      { return f.dir.Name() }

// APIInformationFileFor builds the whole chain for one API below service.
func APIInformationFileFor(service ServiceDirectory, name apim.APIName) APIInformationFile {
	return NewAPIInformationFile(NewAPIDirectory(name, NewAPIsDirectory(service)))
}

// VersionSetsDirectory holds one directory per version set.
type VersionSetsDirectory struct {
	path    Path
	service ServiceDirectory
}

func NewVersionSetsDirectory(service ServiceDirectory) VersionSetsDirectory {
	return VersionSetsDirectory{path: service.Path().Append(VersionSetsDirectoryName), service: service}
}

func (d VersionSetsDirectory) Path() Path                         { return d.path }
func (d VersionSetsDirectory) ServiceDirectory() ServiceDirectory { return d.service }

// VersionSetDirectory holds the artifacts of one version set.
type VersionSetDirectory struct {
	path Path
	name apim.VersionSetName
	sets VersionSetsDirectory
}

func NewVersionSetDirectory(name apim.VersionSetName, sets VersionSetsDirectory) VersionSetDirectory {
	return VersionSetDirectory{path: sets.Path().Append(name.String()), name: name, sets: sets}
}

func (d VersionSetDirectory) Path() Path                                 { return d.path }
func (d VersionSetDirectory) Name() apim.VersionSetName                  { return d.name }
func (d VersionSetDirectory) VersionSetsDirectory() VersionSetsDirectory { return d.sets }

// VersionSetInformationFile holds the encoded content of one version set.
type VersionSetInformationFile struct {
	path Path
	dir  VersionSetDirectory
}

func NewVersionSetInformationFile(dir VersionSetDirectory) VersionSetInformationFile {
	return VersionSetInformationFile{path: dir.Path().Append(VersionSetInformationFileName), dir: dir}
}

func (f VersionSetInformationFile) Path() Path                               { return f.path }
func (f VersionSetInformationFile) VersionSetDirectory() VersionSetDirectory { return f.dir }

// VersionSetInformationFileFor builds the whole chain for one version set below service.
func VersionSetInformationFileFor(service ServiceDirectory, name apim.VersionSetName) VersionSetInformationFile {
	return NewVersionSetInformationFile(NewVersionSetDirectory(name, NewVersionSetsDirectory(service)))
}
