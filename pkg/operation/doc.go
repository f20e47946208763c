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

/*
Package operation drives a run: it walks the configured resources in order
and pushes every matched file through the pipeline.

	+-------------+     +-------------+     +-------------+
	|  Enumerate  | --> |   Resolve   | --> |  Transfer   |
	| (enumerate) |     |  (pathmap)  |     | (transfer)  |
	+-------------+     +-------------+     +------+------+
	                                               |
	                                        +------+------+
	                                        |    Prune    |
	                                        |   (prune)   |
	                                        +-------------+

🔄 Flow per resource:
 1. Resolve the working directory (resource directory or the default one,
    relative paths are joined to Settings.BaseDir)
 2. Print the resource header
 3. List every matching file before anything is written
 4. For each file: resolve the destination, then copy, move or rewrite it
 5. Remove directories left empty under the working directory

⚡ Failure handling:
The first error stops the run. Files already transferred stay where they
are, nothing is rolled back. The returned Report holds everything that
happened up to the failure.

🔍 Example:

	p, err := operation.New(operation.Options{
		Settings: operation.Settings{BaseDir: "/abs/project"},
		Reporter: log.New(os.Stdout, zerolog.Nop()),
	})
	report, err := p.Run(ctx, cfg.Resources)
*/
package operation
