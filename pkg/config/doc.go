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
Package config loads rescopy project files.

🔄 Flow:
 1. Pick a parser from the file name (.yaml, .yml, .json, .hcl)
 2. Decode into a raw File, rejecting unknown fields
 3. Compile every rule and apply resource defaults
 4. Validate the result

🔍 Example:

	cfg, err := config.Load(ctx, ".rescopy.yaml")
	if err != nil {
		var cerr *rule.ConfigurationError
		if errors.As(err, &cerr) {
			fmt.Printf("bad rule %s: %s\n", cerr.Field, cerr.Reason)
		}
		return err
	}
*/
package config
