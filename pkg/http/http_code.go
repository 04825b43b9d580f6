// Copyright 2025 Concord Team
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

package http

var (
	Failed                        = failed(500, "Request failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// BadRequest 400
	BadRequest       = failed(4000, "Bad request")
	ValidationFailed = failed(4001, "Validation failed")
	NotFound         = failed(4004, "Not found")

	// Unauthorized 401
	Unauthorized = failed(4401, "Unauthorized")
	InvalidToken = failed(4405, "Invalid token")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	ModuleDisabled   = failed(4032, "Module is not enabled for this tenant")
	PermissionDenied = failed(4031, "Permission denied")
)

var (
	Success = success(200, "Request Success")
)

type Code struct {
	Code int
	Msg  string
}

func failed(code int, msg string) Code {
	return Code{Code: code, Msg: msg}
}

func success(code int, msg string) Code {
	return Code{Code: code, Msg: msg}
}
