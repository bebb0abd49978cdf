// Package file provides the storage backends upload sets write into.
//
// The Storage interface covers the handful of operations an upload set
// needs: creating directories, saving a stream, checking existence, listing
// and deleting. All paths are relative to the storage root and use forward
// slashes.
//
// Two implementations are provided:
//   - LocalStorage: files under a base directory on the local filesystem
//   - S3Storage: objects under a key prefix in an AWS S3 (or compatible) bucket
//
// # Usage
//
//	import "github.com/dmitrymomot/uploads/pkg/file"
//
//	storage, err := file.NewLocalStorage("/var/uploads/photos")
//	if err != nil {
//		return err
//	}
//
//	if err := storage.MkdirAll(ctx, "2024"); err != nil {
//		return err
//	}
//
//	// Any io.WriterTo works as a source: *bytes.Reader, *strings.Reader, ...
//	info, err := storage.Save(ctx, "2024/boat.jpg", bytes.NewReader(data))
//	if err != nil {
//		return err
//	}
//	fmt.Println(info.MIMEType, info.Size)
//
// Save truncates an existing file. Pass Exclusive to fail with ErrFileExists
// instead; the check is atomic (O_EXCL locally, If-None-Match on S3).
//
// # Security
//
// LocalStorage resolves every path against its base directory and rejects
// anything that escapes it with ErrInvalidPath. S3Storage rejects keys
// containing "..". MIME types are detected from content, never from the
// file extension.
//
// # Error Handling
//
// Errors are sentinel values wrapped with context. Underlying filesystem
// errors stay reachable:
//
//	_, err := storage.Save(ctx, "missing/dir/a.txt", src)
//	if errors.Is(err, file.ErrFailedToCreateFile) && errors.Is(err, fs.ErrNotExist) {
//		// parent directory was not created
//	}
package file
