// Package config defines Config, the immutable, dynamically typed key/value
// view that every other layer of the engine reads through.
//
// A Config wraps a cty.Value holding an object (or map) decoded from JSON or
// produced by the authoring compiler. Accessors never fail: a missing key, a
// null value or a value of the wrong shape all come back as "absent" (the
// boolean second return), leaving the caller to pick a default. Errors are
// reserved for construction, when the input is not object-shaped at all.
//
// Sub-objects returned by GetConfig and GetConfigArray are fresh views over
// immutable cty values; there is no write-back path.
package config
