// Package control defines the values an action uses to steer the response:
// ValidationError (returned), Redirect and HTTPError (returned as errors), and
// GenericError for everything else. Normalize folds any error into that
// closed set.
package control
