// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    return err
//	}
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "scenes/")
//
// Puts go through the transfer manager, so large blobs are uploaded in
// parallel parts. Every upload carries a CRC32C checksum.
package s3
