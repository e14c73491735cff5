// Copyright 2024 StatsFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package all registers every built-in plugin through its init function.
package all

import (
	_ "github.com/statsflow/statsflow/plugins/aggregator/baseagg"
	_ "github.com/statsflow/statsflow/plugins/aggregator/ewma"
	_ "github.com/statsflow/statsflow/plugins/aggregator/movavg"
	_ "github.com/statsflow/statsflow/plugins/aggregator/windowstats"
	_ "github.com/statsflow/statsflow/plugins/flusher/checker"
	_ "github.com/statsflow/statsflow/plugins/flusher/http"
	_ "github.com/statsflow/statsflow/plugins/flusher/stdout"
	_ "github.com/statsflow/statsflow/plugins/input/csvfile"
	_ "github.com/statsflow/statsflow/plugins/input/http"
	_ "github.com/statsflow/statsflow/plugins/input/mock"
	_ "github.com/statsflow/statsflow/plugins/input/system"
	_ "github.com/statsflow/statsflow/plugins/processor/convert"
)
