// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

/*
Package classifier assigns topic labels to an article.

The vocabulary is closed (models.Topics). The model is asked for the two
most relevant labels as a comma separated line; ParseLabels keeps only
vocabulary members, so whatever the model answers, callers always receive
between one and two valid topics. When nothing usable comes back the
article is filed under models.TopicOther.
*/
package classifier
