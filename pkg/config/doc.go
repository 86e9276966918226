/*
Package config manages configuration parsing and validation for textproc.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |                       |
	+-----+-----+ +---+-----+           +----+----+
	|   YAML    | |  JSON   |           |   HCL   |
	| Parser    | | Parser  |           | Parser  |
	+-----------+ +---------+           +---------+

🎯 Purpose:
- Holds every knob of a processing run
- Loads optional settings from .textproc.{yaml,yml,json,hcl}
- Validates and normalizes values before a run starts

🔄 Flow:
1. Start from Default()
2. Overlay a config file, if one is given or discovered
3. Overlay explicitly set command-line flags
4. Validate, which also normalizes extensions

🤝 Interfaces:
- Parser: format-specific decoding onto an existing Config

📝 Design Philosophy:
Parsers decode onto a pre-populated Config, so a file only needs to name the
settings it changes. Fields a file omits keep their defaults.
*/
package config
