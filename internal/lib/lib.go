// Package lib holds supporting libraries that do not belong to a single
// layer, such as background job processing on Redis/Asynq.
package lib
