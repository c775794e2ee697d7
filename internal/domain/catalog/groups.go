package catalog

import "github.com/reglet-dev/portcfg/internal/domain/flags"

func readline() []flags.Definition {
	return []flags.Definition{
		flags.Bool("readline.use", true, "line editing for the REPL"),
		flags.Bool("readline.history", true, "keep REPL input history"),
		flags.Int("readline.history_size", 50, "number of history entries"),
	}
}

func allocation() []flags.Definition {
	return []flags.Definition{
		flags.Int(PathMax, 260, "longest path the allocator sizes buffers for (MAX_PATH)"),
		flags.Derived("os.path_max", flags.KindInteger, flags.SameAs(PathMax), "PATH_MAX seen by the os module"),
		flags.Bool("persistent_code.load", true, "load precompiled bytecode"),
	}
}

func emitters() []flags.Definition {
	return []flags.Definition{
		flags.Bool("emit.x64", false, "native x64 code emitter"),
		flags.Bool("emit.thumb", false, "native Thumb code emitter"),
		flags.Bool("emit.inline_thumb", false, "inline Thumb assembler"),
	}
}

func compiler() []flags.Definition {
	return []flags.Definition{
		flags.Bool("comp.module_const", true, "fold module-level constants"),
		flags.Bool("comp.triple_tuple_assign", true, "optimise a, b, c = d, e, f"),
		flags.Bool("comp.return_if_expr", true, "optimise return with a conditional expression"),
		flags.Bool("opt.computed_goto", false, "computed goto in the VM dispatch loop"),
	}
}

func memory() []flags.Definition {
	return []flags.Definition{
		flags.Bool("gc.enable", true, "garbage collector"),
		flags.Bool("gc.finaliser", true, "run __del__ finalisers"),
		flags.Bool("gc.collect_retval", true, "gc.collect() returns the number of freed blocks"),
		flags.Bool("stack.pystack", true, "separate Python stack"),
		flags.Bool("stack.check", true, "C stack overflow checks"),
		flags.Bool("stackless.enable", false, "stackless VM calls"),
		flags.Bool("stackless.strict", false, "fail instead of falling back to C recursion"),
		flags.Bool("mem.malloc_uses_allocated_size", true, "free() receives the allocation size"),
		flags.Bool("mem.stats", true, "memory statistics"),
	}
}

func input() []flags.Definition {
	return []flags.Definition{
		flags.Bool("debug.printers", true, "debug printers on stderr"),
		flags.Bool("reader.posix", true, "POSIX file reader"),
		flags.Bool("reader.vfs", true, "VFS file reader"),
		flags.Bool("repl.helper", true, "REPL helper functions"),
		flags.Bool("repl.emacs_keys", true, "emacs key bindings"),
		flags.Bool("repl.auto_indent", true, "auto indent"),
		flags.Bool("lexer.unix", true, "unix lexer helpers"),
		flags.Bool("vfs.enable", true, "virtual file system"),
		flags.Bool("vfs.posix", true, "POSIX VFS driver"),
		flags.Bool("streams.non_block", true, "non-blocking streams"),
		flags.Bool("streams.posix_api", true, "POSIX-like stream API"),
	}
}

func numbers() []flags.Definition {
	return []flags.Definition{
		flags.Enum("float.impl", "double", FloatImpls, "floating point implementation"),
		flags.Enum("longint.impl", "mpz", LongIntImpls, "arbitrary precision integer implementation"),
	}
}

func runtime() []flags.Definition {
	return []flags.Definition{
		flags.Bool("module.weak_links", true, "weak links from u-prefixed modules"),
		flags.Bool("module.override_main_import", true, "allow overriding __main__ import"),
		flags.Bool("builtins.can_override", true, "builtins can be overridden"),
		flags.Bool(SchedulerEnable, true, "cooperative scheduler and idle-poll hook"),
		flags.Int(SchedulerQuantum, 1000, "idle-poll sleep quantum in microseconds"),
		flags.Bool("epoch.1970", true, "time epoch is 1970-01-01"),
		flags.Bool("warnings.enable", true, "runtime warnings"),
		flags.Bool("warnings.str_bytes_cmp", true, "warn when comparing str and bytes"),
	}
}

func builtins() []flags.Definition {
	return []flags.Definition{
		flags.Bool("py.function_attrs", true, "function attributes"),
		flags.Bool("py.descriptors", true, "descriptors"),
		flags.Bool("py.delattr_setattr", true, "__delattr__ and __setattr__"),
		flags.Bool("py.fstrings", true, "f-strings"),
		flags.Bool("py.str_unicode", true, "unicode str"),
		flags.Bool("py.str_center", true, "str.center"),
		flags.Bool("py.str_partition", true, "str.partition"),
		flags.Bool("py.str_splitlines", true, "str.splitlines"),
		flags.Bool("py.memoryview", true, "memoryview"),
		flags.Bool("py.frozenset", true, "frozenset"),
		flags.Bool("py.compile", true, "compile()"),
		flags.Bool("py.notimplemented", true, "NotImplemented"),
		flags.Bool("py.input", true, "input()"),
		flags.Bool("py.pow3", true, "three-argument pow()"),
		flags.Bool("py.help", true, "help()"),
		flags.Bool("py.help_modules", true, "help('modules')"),
		flags.Bool("py.round_int", true, "round() on integers"),
		flags.Bool("py.mem_info", true, "micropython.mem_info()"),
		flags.Bool("py.all_special_methods", true, "all special methods"),
		flags.Bool("py.reverse_special_methods", true, "reflected special methods"),
		flags.Bool("py.array_slice_assign", true, "slice assignment on arrays"),
		flags.Bool("py.slice_attrs", true, "slice attributes"),
		flags.Bool("py.collections_deque", true, "collections.deque"),
		flags.Bool("py.collections_ordereddict", true, "collections.OrderedDict"),
		flags.Bool("py.cmath", true, "cmath module"),
		flags.Bool("py.io_iobase", true, "io.IOBase"),
		flags.Bool("py.io_fileio", true, "io.FileIO"),
	}
}

func sys() []flags.Definition {
	return []flags.Definition{
		flags.String(SysPlatform, "win32", "value of sys.platform"),
		flags.String("sys.path_default", ".frozen;~/.micropython/lib", "default sys.path"),
		flags.Bool("sys.path_argv_defaults", false, "initialise sys.path and sys.argv"),
		flags.Bool("sys.exit", true, "sys.exit"),
		flags.Bool("sys.atexit", true, "sys.atexit"),
		flags.Bool("sys.maxsize", true, "sys.maxsize"),
		flags.Bool("sys.stdfiles", true, "sys.stdin/stdout/stderr"),
		flags.Bool("sys.exc_info", true, "sys.exc_info"),
	}
}

func math() []flags.Definition {
	return []flags.Definition{
		flags.Bool("math.special_functions", true, "erf, gamma and friends"),
		flags.Derived("math.isclose", flags.KindBool,
			flags.FromExpr(`flags["math.special_functions"]`, "math.special_functions"), "math.isclose"),
	}
}

func modules() []flags.Definition {
	return []flags.Definition{
		flags.Bool("module.os", true, "os module"),
		flags.Bool("module.os_errno", true, "os.errno"),
		flags.Bool("module.os_getenv", true, "os.getenv, putenv and unsetenv"),
		flags.Bool("module.os_sep", true, "os.sep"),
		flags.Bool("module.os_statvfs", false, "os.statvfs"),
		flags.Bool("module.os_system", true, "os.system"),
		flags.Bool("module.os_urandom", true, "os.urandom"),
		flags.Bool("module.time", true, "time module"),
		flags.Bool("module.time_mp_hal", true, "time functions from the HAL"),
		flags.Bool("module.errno", true, "errno module"),
		flags.Bool("module.uctypes", true, "uctypes module"),
		flags.Bool("module.zlib", true, "zlib module"),
		flags.Bool("module.json", true, "json module"),
		flags.Bool("module.re", true, "re module"),
		flags.Bool("module.heapq", true, "heapq module"),
		flags.Bool("module.timeq", true, "timeq module"),
		flags.Bool("module.hashlib", true, "hashlib module"),
		flags.Bool("module.binascii", true, "binascii module"),
		flags.Bool("module.binascii_crc32", true, "binascii.crc32"),
		flags.Bool("module.random", true, "random module"),
		flags.Bool("module.machine", true, "machine module"),
		flags.Bool("module.machine_pulse", true, "machine.time_pulse_us"),
	}
}

func reporting() []flags.Definition {
	return []flags.Definition{
		flags.Enum("error.reporting", "detailed", ErrorReportings, "exception message detail"),
		flags.Bool("exceptions.source_line", true, "source line numbers in tracebacks"),
	}
}

func exceptions() []flags.Definition {
	return []flags.Definition{
		flags.Bool("exceptions.emergency_buf", true, "emergency exception buffer"),
		flags.Int("exceptions.emergency_buf_size", 256, "emergency exception buffer size in bytes"),
		flags.Bool("exceptions.keyboard", true, "KeyboardInterrupt"),
	}
}

// portHooks are C spellings the runtime splices into its own sources.
func portHooks() []flags.Definition {
	return []flags.Definition{
		flags.String("port.init_func", "init()", "called once before the VM starts"),
		flags.String("port.deinit_func", "deinit()", "called once after the VM stops"),
		flags.String("port.hal_header", "windows_mphal.h", "header with the port's HAL declarations"),
		flags.String("debug.printer", "&mp_stderr_print", "print target of debug output"),
		flags.String("error.printer", "&mp_stderr_print", "print target of uncaught errors"),
		flags.String("os.include_file", "ports/unix/moduos.c", "source included as the os module"),
		flags.String("machine.mem_get_read_addr", "mod_machine_mem_get_addr", "address hook for machine.mem reads"),
		flags.String("machine.mem_get_write_addr", "mod_machine_mem_get_addr", "address hook for machine.mem writes"),
	}
}

func toolchainSpecific() []flags.Definition {
	return []flags.Definition{
		flags.Derived("gc.regs_setjmp", flags.KindBool,
			flags.FromExpr(`flags["gc.enable"] == true && toolchain.id == "msvc"`, "gc.enable"),
			"capture registers for the GC with setjmp"),
		flags.Derived("printf.internal", flags.KindBool,
			flags.FromExpr(`toolchain.id != "msvc"`), "use the runtime's own printf"),
		flags.Derived("math.atan2_fix_infnan", flags.KindBool,
			flags.FromExpr(oldMSVC), "patch atan2 for infinite and NaN arguments"),
		flags.Derived("math.fmod_fix_infnan", flags.KindBool,
			flags.FromExpr(oldMSVC), "patch fmod for infinite and NaN arguments"),
		flags.Derived("math.modf_fix_negzero", flags.KindBool,
			flags.FromExpr(oldMSVC+` && target.win64 == true`), "patch modf sign of zero"),
		flags.Derived("math.pow_fix_nan", flags.KindBool,
			flags.FromExpr(oldMSVC+` && target.win64 != true`), "patch pow for NaN arguments"),
		flags.Derived("port.data_section", flags.KindString,
			flags.FromExpr(`toolchain.id == "msvc" ? "upydata" : ""`), "named section for static data"),
		flags.Derived("port.bss_section", flags.KindString,
			flags.FromExpr(`toolchain.id == "msvc" ? "upybss" : ""`), "named section for zeroed data"),
		flags.Derived("port.constants", flags.KindString,
			flags.FromExpr(`toolchain.id == "msvc" ? "{ MP_ROM_QSTR(MP_QSTR_dummy), MP_ROM_PTR(NULL) }" : ""`),
			"placeholder constants table, since MSVC rejects zero-sized arrays"),
	}
}
