package audio

import "errors"

// ErrSilenceDetection indicates the silence-detection subprocess failed.
// Callers treat this as "no silence points found" rather than aborting:
// silence detection is an optimization, not a correctness requirement.
var ErrSilenceDetection = errors.New("silence detection failed")

// ErrSegmentationFailed indicates FFmpeg failed while cutting the source
// into chunks. Unlike silence detection this is fatal for the attempt:
// without chunk files there is nothing to fall back on.
var ErrSegmentationFailed = errors.New("audio segmentation failed")

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")
