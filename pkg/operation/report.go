// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"github.com/walteh/rescopy/pkg/log"
	"github.com/walteh/rescopy/pkg/transfer"
)

// 📄 FileResult is one matched file and what happened to it
type FileResult struct {
	Source      string
	Destination string
	Action      transfer.Action
}

// 📦 ResourceReport collects the outcome of a single resource
type ResourceReport struct {
	ID         string
	WorkingDir string
	Files      []FileResult
	Pruned     []string // directories removed after the transfers
}

// Count returns how many files ended with action
func (r ResourceReport) Count(action transfer.Action) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == action {
			n++
		}
	}
	return n
}

// 📊 Report is the outcome of a run, possibly partial when Run failed
type Report struct {
	DryRun    bool
	Resources []ResourceReport
}

// Totals sums the report for the console summary
func (r *Report) Totals() log.Totals {
	t := log.Totals{Resources: len(r.Resources), DryRun: r.DryRun}
	for _, rr := range r.Resources {
		t.Files += len(rr.Files)
		t.Copied += rr.Count(transfer.ActionCopied)
		t.Moved += rr.Count(transfer.ActionMoved)
		t.Rewritten += rr.Count(transfer.ActionRewritten) + rr.Count(transfer.ActionRewrittenInPlace)
		t.Unchanged += rr.Count(transfer.ActionUnchanged)
		t.Pruned += len(rr.Pruned)
	}
	return t
}
