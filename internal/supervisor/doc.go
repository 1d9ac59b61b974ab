// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

/*
Package supervisor runs Platescan's long-lived services under suture v4.

	RootSupervisor ("platescan")
	├── DataSupervisor ("data-layer")
	│   └── KVCacheGCService (when the KV cache is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff; a failure in one
layer is counted only against that layer. Supervisor events are logged
through sutureslog, which main wires to the zerolog bridge:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))
	err = tree.Serve(ctx) // returns when ctx is canceled

Service wrappers live in the services subpackage.
*/
package supervisor
