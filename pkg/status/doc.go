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
Package status tracks the progress of a single processing run.

	            +-------------+
	            |   Tracker   |
	            |  (counts)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  zerolog  |           |  Lines  |
	| progress  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Counts processed, skipped and failed items
- Emits progress messages while the run advances
- Produces the end-of-run summary line

🔄 Flow:
1. The run calls Start with the number of collected items
2. Collection skips and processor outcomes are tracked as ItemEvents
3. Each event is forwarded to the optional ItemLogger for console output
4. Counts returns the totals for the summary

🤝 Interfaces:
- Reporter: receives run and item events
- ItemLogger: renders one line per item
- Formatter: formats progress and summary messages
*/
package status
