// Package uploads configures named upload sets and stores files into them.
//
// An UploadSet is a descriptor: a name and a default ExtensionPolicy. Its
// runtime configuration (destination, base URL, allow and deny overrides)
// is resolved from the application settings and kept in a Registry owned by
// the application. Every operation takes the registry explicitly, so one set
// can be used by several application instances at once.
//
// # Configuration
//
// For a set named "photos" the following settings are read:
//
//	UPLOADED_PHOTOS_DEST   destination directory (or s3://bucket/prefix)
//	UPLOADED_PHOTOS_URL    public base URL; empty disables serving
//	UPLOADED_PHOTOS_ALLOW  comma separated extensions always accepted
//	UPLOADED_PHOTOS_DENY   comma separated extensions rejected unless allowed
//	UPLOADS_DEFAULT_DEST   root for sets without their own destination
//	UPLOADS_DEFAULT_URL    public root matching UPLOADS_DEFAULT_DEST
//	UPLOADS_AUTOSERVE      mount the serving endpoint (default true)
//
// # Usage
//
//	var photos = uploads.MustUploadSet("photos", uploads.WithExtensions(uploads.Extensions(uploads.Images)))
//
//	settings, _ := config.Environ(".env")
//	reg, err := uploads.NewRegistry(settings, uploads.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	if err := reg.Configure(ctx, photos); err != nil {
//		return err
//	}
//	reg.Mount(router)
//
//	// in a handler
//	_, fh, _ := r.FormFile("photo")
//	name, err := photos.Save(ctx, reg, uploads.FromFileHeader(fh), uploads.InFolder("2024"))
//	if errors.Is(err, uploads.ErrUploadNotAllowed) {
//		// tell the user
//	}
//	link, _ := photos.URL(reg, name)
//
// # Concurrency
//
// The registry is read-only after Configure. Saving takes no locks: two
// requests saving the same name at the same moment can both pick the same
// free name and one write wins. WithExclusiveCreate closes that gap with an
// atomic create and a new name for the loser.
package uploads
