package integrations

import "errors"

// ErrNoImages reports a packaging attempt over a directory that holds
// no image files.
var ErrNoImages = errors.New("no images to package")

// Archiver builds one archive format from a directory of ordered page
// images. The archive lands next to the directory, with the archiver's
// extension in place of the directory name.
type Archiver interface {
	Extension() string
	Build(dir string) (string, error)
}
